package tlg

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/celestix/gotgproto"
	"github.com/celestix/gotgproto/sessionMaker"
	"github.com/glebarez/sqlite"
	"github.com/gotd/contrib/middleware/floodwait"
	"github.com/gotd/contrib/middleware/ratelimit"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/tgfetch/TGFetch/internal/log"
	"github.com/tgfetch/TGFetch/internal/types"
)

// ChatTarget identifies the chat to scan: a numeric id or a username.
type ChatTarget struct {
	ID       int64
	Username string
}

func (t ChatTarget) String() string {
	if t.Username != "" {
		return "@" + t.Username
	}
	return fmt.Sprintf("%d", t.ID)
}

// TargetFromValue builds a ChatTarget from a validated chat_id value.
func TargetFromValue(v any) ChatTarget {
	switch val := v.(type) {
	case int64:
		return ChatTarget{ID: val}
	case string:
		return ChatTarget{Username: val}
	}
	return ChatTarget{}
}

// IClient is the narrow messaging-platform capability consumed by the
// dispatcher and the orchestrator.
type IClient interface {
	Connect(ctx context.Context) error
	Disconnect() error
	IterMessages(ctx context.Context, target ChatTarget, minID int) (IMessageIter, error)
	GetMessages(ctx context.Context, target ChatTarget, ids []int) ([]*types.Message, error)
	DownloadMedia(ctx context.Context, msg *types.Message, destPath string, onProgress func(current, total int64)) (string, error)
}

// IMessageIter is a lazy forward message stream.
type IMessageIter interface {
	Next(ctx context.Context) bool
	Value() *types.Message
	Err() error
}

type client struct {
	sessCfg *SessionConfig
	client  *gotgproto.Client
}

var _ IClient = (*client)(nil)

func (tc *client) Connect(ctx context.Context) error {
	ll := tc.getLogger("Connect")
	if tc.client != nil {
		ll.Warn("client is already connected")
		return nil
	}
	ll.Info("connecting to tg")
	cl, err := tc.getTgClient()
	if err != nil {
		return fmt.Errorf("can not get tg client: %w", err)
	}
	tc.client = cl
	return nil
}

func (tc *client) Disconnect() error {
	if tc.client == nil {
		return nil
	}
	tc.client.Stop()
	tc.client = nil
	return nil
}

func (tc *client) getTgClient() (*gotgproto.Client, error) {
	ll := tc.getLogger("getTgClient")
	sessCfg := tc.sessCfg
	if err := os.Mkdir(sessCfg.SessionDir, os.ModePerm); err != nil && !os.IsExist(err) {
		return nil, fmt.Errorf("can not create session dir: %s", err)
	}
	sessionDBPath := fmt.Sprintf("%s/user.sqlite3", sessCfg.SessionDir)
	ll.Infof("session db path: %s", sessionDBPath)
	sessionType := sessionMaker.SqlSession(sqlite.Open(sessionDBPath))
	clOpts := gotgproto.ClientOpts{
		Session:          sessionType,
		DisableCopyright: true,
		Middlewares:      tc.getMiddlewares(),
	}
	if resolver, err := sessCfg.getSocksDialer(); err != nil {
		ll.WithError(err).Error("can not get socks dialer. using default")
	} else if resolver != nil {
		ll.Infof("using socks dialer")
		clOpts.Resolver = *resolver
	}
	client, err := gotgproto.NewClient(
		sessCfg.AppID,
		sessCfg.AppHash,
		gotgproto.ClientTypePhone(sessCfg.Phone),
		&clOpts,
	)
	if err != nil {
		return nil, fmt.Errorf("can not create gotgproto client: %w", err)
	}
	return client, nil
}

func (tc *client) getMiddlewares() []telegram.Middleware {
	return []telegram.Middleware{
		floodwait.NewSimpleWaiter().WithMaxRetries(10).WithMaxWait(5 * time.Second),
		ratelimit.New(rate.Every(time.Millisecond*100), 5),
	}
}

func (tc *client) api() *tg.Client {
	return tc.client.API()
}

// resolvePeer turns a ChatTarget into an input peer. Usernames go through
// contacts.resolveUsername; numeric ids are looked up in the session peer
// storage populated during dialog sync.
func (tc *client) resolvePeer(ctx context.Context, target ChatTarget) (tg.InputPeerClass, error) {
	if target.Username != "" {
		resolved, err := tc.api().ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{
			Username: target.Username,
		})
		if err != nil {
			return nil, fmt.Errorf("can not resolve username %s: %w", target.Username, err)
		}
		for _, chat := range resolved.Chats {
			if channel, ok := chat.(*tg.Channel); ok && !channel.Min {
				return channel.AsInputPeer(), nil
			}
		}
		for _, usr := range resolved.Users {
			if user, ok := usr.(*tg.User); ok {
				return user.AsInputPeer(), nil
			}
		}
		return nil, &PeerNotFoundErrType{Target: target}
	}
	peer := tc.client.PeerStorage.GetInputPeerById(target.ID)
	if _, empty := peer.(*tg.InputPeerEmpty); empty || peer == nil {
		return nil, &PeerNotFoundErrType{Target: target}
	}
	return peer, nil
}

func (tc *client) getLogger(fn string) *logrus.Entry {
	return log.GetLogger(log.TlgModule).WithField("func", fmt.Sprintf("%T.%s", tc, fn))
}

func NewTgClient(sessCfg *SessionConfig) IClient {
	return &client{
		sessCfg: sessCfg,
	}
}
