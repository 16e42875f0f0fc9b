package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tenzoki/gowire/internal/destination"
	"github.com/tenzoki/gowire/internal/ids"
	"github.com/tenzoki/gowire/internal/wireformat"
)

func TestAsyncSendStorePutRecoverRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "asend")
	s, err := OpenAsyncSendStore(dir)
	require.NoError(t, err)
	defer s.Close()

	producerId := ids.ProducerId{SessionId: ids.SessionId{ConnectionId: ids.NewConnectionId(), Value: 1}, Value: 1}

	msg1 := wireformat.NewTextMessage("one")
	msg1.ProducerId = producerId
	msg1.Destination = destination.NewQueue("orders")
	msg1.MessageId = ids.MessageId{ProducerId: producerId, Value: 1}

	msg2 := wireformat.NewTextMessage("two")
	msg2.ProducerId = producerId
	msg2.Destination = destination.NewQueue("orders")
	msg2.MessageId = ids.MessageId{ProducerId: producerId, Value: 2}

	require.NoError(t, s.Put(producerId, 1, msg1))
	require.NoError(t, s.Put(producerId, 2, msg2))

	recovered, err := s.Recover()
	require.NoError(t, err)
	require.Len(t, recovered, 2)
	require.Equal(t, "one", recovered[0].Body.Text)
	require.Equal(t, "two", recovered[1].Body.Text)

	require.NoError(t, s.Remove(producerId, 1))

	recovered, err = s.Recover()
	require.NoError(t, err)
	require.Len(t, recovered, 1)
	require.Equal(t, "two", recovered[0].Body.Text)
}

func TestAsyncSendStoreRecoverEmpty(t *testing.T) {
	s, err := OpenAsyncSendStore(filepath.Join(t.TempDir(), "asend"))
	require.NoError(t, err)
	defer s.Close()

	recovered, err := s.Recover()
	require.NoError(t, err)
	require.Empty(t, recovered)
}

func TestAsyncSendStoreCloseIsIdempotent(t *testing.T) {
	s, err := OpenAsyncSendStore(filepath.Join(t.TempDir(), "asend"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
