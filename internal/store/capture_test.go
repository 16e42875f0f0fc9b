package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tenzoki/gowire/internal/wireformat"
)

func TestFrameRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.msgpack")

	rec, err := NewFrameRecorder(path)
	require.NoError(t, err)

	require.NoError(t, rec.Record(Outbound, &wireformat.WireFormatInfo{}, []byte{0x01, 0x02}))
	require.NoError(t, rec.Record(Inbound, &wireformat.Response{CorrelationId: 7}, []byte{0x03}))
	require.NoError(t, rec.Close())

	frames, err := ReadCaptured(path)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	require.Equal(t, Outbound, frames[0].Direction)
	require.Equal(t, wireformat.TagWireFormatInfo, frames[0].Tag)
	require.Equal(t, []byte{0x01, 0x02}, frames[0].Raw)

	require.Equal(t, Inbound, frames[1].Direction)
	require.Equal(t, wireformat.TagResponse, frames[1].Tag)
}

func TestFrameRecorderAppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.msgpack")

	rec1, err := NewFrameRecorder(path)
	require.NoError(t, err)
	require.NoError(t, rec1.Record(Outbound, &wireformat.KeepAliveInfo{}, nil))
	require.NoError(t, rec1.Close())

	rec2, err := NewFrameRecorder(path)
	require.NoError(t, err)
	require.NoError(t, rec2.Record(Inbound, &wireformat.KeepAliveInfo{}, nil))
	require.NoError(t, rec2.Close())

	frames, err := ReadCaptured(path)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	require.Equal(t, Outbound, frames[0].Direction)
	require.Equal(t, Inbound, frames[1].Direction)
}
