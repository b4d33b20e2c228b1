package tlg

import (
	"context"
	"fmt"
	"sort"

	"github.com/gotd/td/tg"
	"github.com/sirupsen/logrus"

	"github.com/tgfetch/TGFetch/internal/log"
	"github.com/tgfetch/TGFetch/internal/types"
)

const historyPageSize = 100

// messageIter pages through chat history in ascending id order starting
// after minID. Each history request asks for the window right above the
// last yielded id, so the stream is restartable from any cursor.
type messageIter struct {
	api      *tg.Client
	peer     tg.InputPeerClass
	chatID   int64
	offsetID int
	buf      []*types.Message
	cur      *types.Message
	done     bool
	err      error
}

var _ IMessageIter = (*messageIter)(nil)

func (it *messageIter) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	if len(it.buf) == 0 && !it.done {
		if err := it.fill(ctx); err != nil {
			it.err = err
			return false
		}
	}
	if len(it.buf) == 0 {
		return false
	}
	it.cur = it.buf[0]
	it.buf = it.buf[1:]
	return true
}

func (it *messageIter) Value() *types.Message {
	return it.cur
}

func (it *messageIter) Err() error {
	return it.err
}

func (it *messageIter) fill(ctx context.Context) error {
	ll := it.getLogger("fill")
	page, err := it.api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer:      it.peer,
		OffsetID:  it.offsetID,
		AddOffset: -historyPageSize,
		Limit:     historyPageSize,
	})
	if err != nil {
		return fmt.Errorf("can not get history page: %w", err)
	}
	modified, ok := page.AsModified()
	if !ok {
		it.done = true
		return nil
	}
	batch := []*types.Message{}
	maxID := it.offsetID
	for _, msgCls := range modified.GetMessages() {
		msg, ok := msgCls.(*tg.Message)
		if !ok {
			continue
		}
		if msg.ID <= it.offsetID {
			continue
		}
		if msg.ID > maxID {
			maxID = msg.ID
		}
		batch = append(batch, mapMessage(it.chatID, msg))
	}
	if len(batch) == 0 || maxID == it.offsetID {
		it.done = true
		return nil
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].ID < batch[j].ID })
	ll.Debugf("fetched %d messages above id %d", len(batch), it.offsetID)
	it.offsetID = maxID
	it.buf = batch
	return nil
}

func (it *messageIter) getLogger(fn string) *logrus.Entry {
	return log.GetLogger(log.TlgModule).WithField("func", fmt.Sprintf("%T.%s", it, fn))
}

func (tc *client) IterMessages(ctx context.Context, target ChatTarget, minID int) (IMessageIter, error) {
	peer, err := tc.resolvePeer(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("can not resolve target: %w", err)
	}
	return &messageIter{
		api:      tc.api(),
		peer:     peer,
		chatID:   target.ID,
		offsetID: minID,
	}, nil
}

func (tc *client) GetMessages(ctx context.Context, target ChatTarget, ids []int) ([]*types.Message, error) {
	peer, err := tc.resolvePeer(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("can not resolve target: %w", err)
	}
	inputMsgList := make([]tg.InputMessageClass, 0, len(ids))
	for _, id := range ids {
		inputMsgList = append(inputMsgList, &tg.InputMessageID{ID: id})
	}
	var msgsCls tg.MessagesMessagesClass
	if channel, ok := peer.(*tg.InputPeerChannel); ok {
		msgsCls, err = tc.api().ChannelsGetMessages(ctx, &tg.ChannelsGetMessagesRequest{
			Channel: &tg.InputChannel{ChannelID: channel.ChannelID, AccessHash: channel.AccessHash},
			ID:      inputMsgList,
		})
	} else {
		msgsCls, err = tc.api().MessagesGetMessages(ctx, inputMsgList)
	}
	if err != nil {
		return nil, fmt.Errorf("can not get messages: %w", err)
	}
	modified, ok := msgsCls.AsModified()
	if !ok {
		return nil, &UnexpectedTypeErrType{ExpectedType: &tg.MessagesMessages{}, GotType: msgsCls}
	}
	out := []*types.Message{}
	for _, msgCls := range modified.GetMessages() {
		if msg, ok := msgCls.(*tg.Message); ok {
			out = append(out, mapMessage(target.ID, msg))
		}
	}
	return out, nil
}
