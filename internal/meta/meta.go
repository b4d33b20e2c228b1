// Package meta carries build identity passed to the Telegram client and
// shown at startup.
package meta

const (
	Version       = "1.2.0"
	DeviceModel   = "TGFetch"
	SystemVersion = "Linux"
	LangCode      = "en"
)
