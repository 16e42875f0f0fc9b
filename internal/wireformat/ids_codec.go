package wireformat

import "github.com/tenzoki/gowire/internal/ids"

// Id fields are encoded component-by-component (parent string/longs, then
// the local sequence number) rather than via their String() form, so the
// wire representation never depends on the separator characters
// ids.SessionId.String() and friends happen to use for debug output.

func connIdTightSize1(bs *BooleanStream, id ids.ConnectionId) int {
	s := id.Value
	return TightMarshalString1(bs, &s)
}

func connIdTightWrite2(bs *BooleanStream, id ids.ConnectionId, buf []byte) ([]byte, error) {
	s := id.Value
	return TightMarshalString2(bs, &s, buf)
}

func connIdTightRead(bs *BooleanStream, data []byte) (ids.ConnectionId, []byte, error) {
	s, rest, err := TightUnmarshalString(bs, data)
	if err != nil {
		return ids.ConnectionId{}, nil, err
	}
	v := ""
	if s != nil {
		v = *s
	}
	return ids.ConnectionId{Value: v}, rest, nil
}

func connIdLooseWrite(buf []byte, id ids.ConnectionId) []byte {
	s := id.Value
	return WriteLooseString(buf, &s)
}

func connIdLooseRead(data []byte) (ids.ConnectionId, []byte, error) {
	s, rest, err := ReadLooseString(data)
	if err != nil {
		return ids.ConnectionId{}, nil, err
	}
	v := ""
	if s != nil {
		v = *s
	}
	return ids.ConnectionId{Value: v}, rest, nil
}

func sessionIdTightSize1(bs *BooleanStream, id ids.SessionId) int {
	return connIdTightSize1(bs, id.ConnectionId) + TightMarshalLong1(bs, id.Value)
}

func sessionIdTightWrite2(bs *BooleanStream, id ids.SessionId, buf []byte) ([]byte, error) {
	buf, err := connIdTightWrite2(bs, id.ConnectionId, buf)
	if err != nil {
		return nil, err
	}
	return TightMarshalLong2(bs, id.Value, buf)
}

func sessionIdTightRead(bs *BooleanStream, data []byte) (ids.SessionId, []byte, error) {
	connId, rest, err := connIdTightRead(bs, data)
	if err != nil {
		return ids.SessionId{}, nil, err
	}
	v, rest, err := TightReadLong(bs, rest)
	if err != nil {
		return ids.SessionId{}, nil, err
	}
	return ids.SessionId{ConnectionId: connId, Value: v}, rest, nil
}

func sessionIdLooseWrite(buf []byte, id ids.SessionId) []byte {
	buf = connIdLooseWrite(buf, id.ConnectionId)
	return WriteLooseLong(buf, id.Value)
}

func sessionIdLooseRead(data []byte) (ids.SessionId, []byte, error) {
	connId, rest, err := connIdLooseRead(data)
	if err != nil {
		return ids.SessionId{}, nil, err
	}
	v, rest, err := ReadLooseLong(rest)
	if err != nil {
		return ids.SessionId{}, nil, err
	}
	return ids.SessionId{ConnectionId: connId, Value: v}, rest, nil
}

func consumerIdTightSize1(bs *BooleanStream, id ids.ConsumerId) int {
	return sessionIdTightSize1(bs, id.SessionId) + TightMarshalLong1(bs, id.Value)
}

func consumerIdTightWrite2(bs *BooleanStream, id ids.ConsumerId, buf []byte) ([]byte, error) {
	buf, err := sessionIdTightWrite2(bs, id.SessionId, buf)
	if err != nil {
		return nil, err
	}
	return TightMarshalLong2(bs, id.Value, buf)
}

func consumerIdTightRead(bs *BooleanStream, data []byte) (ids.ConsumerId, []byte, error) {
	sessId, rest, err := sessionIdTightRead(bs, data)
	if err != nil {
		return ids.ConsumerId{}, nil, err
	}
	v, rest, err := TightReadLong(bs, rest)
	if err != nil {
		return ids.ConsumerId{}, nil, err
	}
	return ids.ConsumerId{SessionId: sessId, Value: v}, rest, nil
}

func consumerIdLooseWrite(buf []byte, id ids.ConsumerId) []byte {
	buf = sessionIdLooseWrite(buf, id.SessionId)
	return WriteLooseLong(buf, id.Value)
}

func consumerIdLooseRead(data []byte) (ids.ConsumerId, []byte, error) {
	sessId, rest, err := sessionIdLooseRead(data)
	if err != nil {
		return ids.ConsumerId{}, nil, err
	}
	v, rest, err := ReadLooseLong(rest)
	if err != nil {
		return ids.ConsumerId{}, nil, err
	}
	return ids.ConsumerId{SessionId: sessId, Value: v}, rest, nil
}

func producerIdTightSize1(bs *BooleanStream, id ids.ProducerId) int {
	return sessionIdTightSize1(bs, id.SessionId) + TightMarshalLong1(bs, id.Value)
}

func producerIdTightWrite2(bs *BooleanStream, id ids.ProducerId, buf []byte) ([]byte, error) {
	buf, err := sessionIdTightWrite2(bs, id.SessionId, buf)
	if err != nil {
		return nil, err
	}
	return TightMarshalLong2(bs, id.Value, buf)
}

func producerIdTightRead(bs *BooleanStream, data []byte) (ids.ProducerId, []byte, error) {
	sessId, rest, err := sessionIdTightRead(bs, data)
	if err != nil {
		return ids.ProducerId{}, nil, err
	}
	v, rest, err := TightReadLong(bs, rest)
	if err != nil {
		return ids.ProducerId{}, nil, err
	}
	return ids.ProducerId{SessionId: sessId, Value: v}, rest, nil
}

func producerIdLooseWrite(buf []byte, id ids.ProducerId) []byte {
	buf = sessionIdLooseWrite(buf, id.SessionId)
	return WriteLooseLong(buf, id.Value)
}

func producerIdLooseRead(data []byte) (ids.ProducerId, []byte, error) {
	sessId, rest, err := sessionIdLooseRead(data)
	if err != nil {
		return ids.ProducerId{}, nil, err
	}
	v, rest, err := ReadLooseLong(rest)
	if err != nil {
		return ids.ProducerId{}, nil, err
	}
	return ids.ProducerId{SessionId: sessId, Value: v}, rest, nil
}

func messageIdTightSize1(bs *BooleanStream, id ids.MessageId) int {
	return producerIdTightSize1(bs, id.ProducerId) + TightMarshalLong1(bs, id.Value)
}

func messageIdTightWrite2(bs *BooleanStream, id ids.MessageId, buf []byte) ([]byte, error) {
	buf, err := producerIdTightWrite2(bs, id.ProducerId, buf)
	if err != nil {
		return nil, err
	}
	return TightMarshalLong2(bs, id.Value, buf)
}

func messageIdTightRead(bs *BooleanStream, data []byte) (ids.MessageId, []byte, error) {
	prodId, rest, err := producerIdTightRead(bs, data)
	if err != nil {
		return ids.MessageId{}, nil, err
	}
	v, rest, err := TightReadLong(bs, rest)
	if err != nil {
		return ids.MessageId{}, nil, err
	}
	return ids.MessageId{ProducerId: prodId, Value: v}, rest, nil
}

func messageIdLooseWrite(buf []byte, id ids.MessageId) []byte {
	buf = producerIdLooseWrite(buf, id.ProducerId)
	return WriteLooseLong(buf, id.Value)
}

func messageIdLooseRead(data []byte) (ids.MessageId, []byte, error) {
	prodId, rest, err := producerIdLooseRead(data)
	if err != nil {
		return ids.MessageId{}, nil, err
	}
	v, rest, err := ReadLooseLong(rest)
	if err != nil {
		return ids.MessageId{}, nil, err
	}
	return ids.MessageId{ProducerId: prodId, Value: v}, rest, nil
}

func txnIdTightSize1(bs *BooleanStream, id ids.TransactionId) int {
	return connIdTightSize1(bs, id.ConnectionId) + TightMarshalLong1(bs, id.Value)
}

func txnIdTightWrite2(bs *BooleanStream, id ids.TransactionId, buf []byte) ([]byte, error) {
	buf, err := connIdTightWrite2(bs, id.ConnectionId, buf)
	if err != nil {
		return nil, err
	}
	return TightMarshalLong2(bs, id.Value, buf)
}

func txnIdTightRead(bs *BooleanStream, data []byte) (ids.TransactionId, []byte, error) {
	connId, rest, err := connIdTightRead(bs, data)
	if err != nil {
		return ids.TransactionId{}, nil, err
	}
	v, rest, err := TightReadLong(bs, rest)
	if err != nil {
		return ids.TransactionId{}, nil, err
	}
	return ids.TransactionId{ConnectionId: connId, Value: v}, rest, nil
}

func txnIdLooseWrite(buf []byte, id ids.TransactionId) []byte {
	buf = connIdLooseWrite(buf, id.ConnectionId)
	return WriteLooseLong(buf, id.Value)
}

func txnIdLooseRead(data []byte) (ids.TransactionId, []byte, error) {
	connId, rest, err := connIdLooseRead(data)
	if err != nil {
		return ids.TransactionId{}, nil, err
	}
	v, rest, err := ReadLooseLong(rest)
	if err != nil {
		return ids.TransactionId{}, nil, err
	}
	return ids.TransactionId{ConnectionId: connId, Value: v}, rest, nil
}
