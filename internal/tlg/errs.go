package tlg

import "fmt"

type UnexpectedTypeErrType struct {
	ExpectedType any
	GotType      any
}

func (e *UnexpectedTypeErrType) Error() string {
	return fmt.Sprintf("expected %T got %T", e.ExpectedType, e.GotType)
}

type PeerNotFoundErrType struct {
	Target ChatTarget
}

func (e *PeerNotFoundErrType) Error() string {
	return fmt.Sprintf("can not resolve peer for target %s", e.Target)
}
