package wireformat

import "github.com/tenzoki/gowire/internal/ids"

func tagToBodyKind(t Tag) BodyKind {
	switch t {
	case TagBytesMessage:
		return BodyBytes
	case TagMapMessage:
		return BodyMap
	case TagStreamMessage:
		return BodyStream
	case TagObjectMessage:
		return BodyObject
	default:
		return BodyText
	}
}

// marshalNestedMessage/unmarshalNestedMessage embed one Message inside
// another command (MessageDispatch) as a self-delimited, always
// loose-encoded blob: [4-byte total length][tag byte][4-byte body
// length][body]. The nested payload doesn't need to track the outer
// command's tight/loose choice — it carries its own length prefix either
// way, so keeping it loose avoids threading a second BooleanStream scope
// through the dispatch entry's two-pass tight marshal.
func marshalNestedMessage(m *Message) ([]byte, error) {
	if m == nil {
		return WriteInt(nil, -1), nil
	}
	entry := messageEntry(m.Body.Kind)
	body, err := entry.looseMarshal(m)
	if err != nil {
		return nil, err
	}
	inner := []byte{byte(m.Tag())}
	inner = WriteInt(inner, int32(len(body)))
	inner = append(inner, body...)
	return append(WriteInt(nil, int32(len(inner))), inner...), nil
}

func unmarshalNestedMessage(data []byte) (*Message, []byte, error) {
	n, rest, err := ReadInt(data)
	if err != nil {
		return nil, nil, err
	}
	if n < 0 {
		return nil, rest, nil
	}
	if len(rest) < int(n) {
		return nil, nil, &TruncatedFrameError{Want: int(n), Got: len(rest)}
	}
	blob, remainder := rest[:n], rest[n:]
	if len(blob) < 1 {
		return nil, nil, &TruncatedFrameError{Want: 1, Got: len(blob)}
	}
	tag := Tag(blob[0])
	blob = blob[1:]
	bodyLen, blob, err := ReadInt(blob)
	if err != nil {
		return nil, nil, err
	}
	if len(blob) < int(bodyLen) {
		return nil, nil, &TruncatedFrameError{Want: int(bodyLen), Got: len(blob)}
	}
	entry := messageEntry(tagToBodyKind(tag))
	cmd, _, err := entry.looseUnmarshal(blob[:bodyLen])
	if err != nil {
		return nil, nil, err
	}
	return cmd.(*Message), remainder, nil
}

func txnIdPtrTightSize1(bs *BooleanStream, id *ids.TransactionId) int {
	if id == nil {
		bs.WriteBoolean(false)
		return 0
	}
	bs.WriteBoolean(true)
	return txnIdTightSize1(bs, *id)
}

func txnIdPtrTightWrite2(bs *BooleanStream, id *ids.TransactionId, buf []byte) ([]byte, error) {
	present, err := bs.ReadBoolean()
	if err != nil {
		return nil, err
	}
	if !present {
		return buf, nil
	}
	return txnIdTightWrite2(bs, *id, buf)
}

func txnIdPtrTightRead(bs *BooleanStream, data []byte) (*ids.TransactionId, []byte, error) {
	present, err := bs.ReadBoolean()
	if err != nil {
		return nil, nil, err
	}
	if !present {
		return nil, data, nil
	}
	id, rest, err := txnIdTightRead(bs, data)
	if err != nil {
		return nil, nil, err
	}
	return &id, rest, nil
}

func txnIdPtrLooseWrite(buf []byte, id *ids.TransactionId) []byte {
	if id == nil {
		return WriteBool(buf, false)
	}
	buf = WriteBool(buf, true)
	return txnIdLooseWrite(buf, *id)
}

func txnIdPtrLooseRead(data []byte) (*ids.TransactionId, []byte, error) {
	present, rest, err := ReadBool(data)
	if err != nil {
		return nil, nil, err
	}
	if !present {
		return nil, rest, nil
	}
	id, rest, err := txnIdLooseRead(rest)
	if err != nil {
		return nil, nil, err
	}
	return &id, rest, nil
}

var messageDispatchEntry = &marshalEntry{
	tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
		c := cmd.(*MessageDispatch)
		n := headerTightSize1(bs, c.ResponseRequired)
		n += consumerIdTightSize1(bs, c.ConsumerId)
		n += destTightSize1(bs, c.Destination)
		nested, err := marshalNestedMessage(c.Message)
		if err != nil {
			return 0, err
		}
		n += len(nested)
		n += 2 // RedeliveryCounter
		return n, nil
	},
	tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
		c := cmd.(*MessageDispatch)
		buf, err := headerTightWrite2(bs, c.CommandId, nil)
		if err != nil {
			return nil, err
		}
		if buf, err = consumerIdTightWrite2(bs, c.ConsumerId, buf); err != nil {
			return nil, err
		}
		if buf, err = destTightWrite2(bs, c.Destination, buf); err != nil {
			return nil, err
		}
		nested, err := marshalNestedMessage(c.Message)
		if err != nil {
			return nil, err
		}
		buf = append(buf, nested...)
		return WriteShort(buf, c.RedeliveryCounter), nil
	},
	tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
		c := &MessageDispatch{}
		commandId, respReq, rest, err := headerTightRead(bs, data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.ConsumerId, rest, err = consumerIdTightRead(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		c.Destination, rest, err = destTightRead(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		c.Message, rest, err = unmarshalNestedMessage(rest)
		if err != nil {
			return nil, nil, err
		}
		c.RedeliveryCounter, rest, err = ReadShort(rest)
		if err != nil {
			return nil, nil, err
		}
		return c, rest, nil
	},
	looseMarshal: func(cmd Command) ([]byte, error) {
		c := cmd.(*MessageDispatch)
		buf := headerLooseWrite(nil, c.CommandId, c.ResponseRequired)
		buf = consumerIdLooseWrite(buf, c.ConsumerId)
		buf = destLooseWrite(buf, c.Destination)
		nested, err := marshalNestedMessage(c.Message)
		if err != nil {
			return nil, err
		}
		buf = append(buf, nested...)
		return WriteShort(buf, c.RedeliveryCounter), nil
	},
	looseUnmarshal: func(data []byte) (Command, []byte, error) {
		c := &MessageDispatch{}
		commandId, respReq, rest, err := headerLooseRead(data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.ConsumerId, rest, err = consumerIdLooseRead(rest)
		if err != nil {
			return nil, nil, err
		}
		c.Destination, rest, err = destLooseRead(rest)
		if err != nil {
			return nil, nil, err
		}
		c.Message, rest, err = unmarshalNestedMessage(rest)
		if err != nil {
			return nil, nil, err
		}
		c.RedeliveryCounter, rest, err = ReadShort(rest)
		if err != nil {
			return nil, nil, err
		}
		return c, rest, nil
	},
}

var messageAckEntry = &marshalEntry{
	tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
		c := cmd.(*MessageAck)
		n := headerTightSize1(bs, c.ResponseRequired)
		n += consumerIdTightSize1(bs, c.ConsumerId)
		n += destTightSize1(bs, c.Destination)
		n += 4 // AckType
		n += messageIdTightSize1(bs, c.FirstMessageId)
		n += messageIdTightSize1(bs, c.LastMessageId)
		n += 4 // MessageCount
		n += txnIdPtrTightSize1(bs, c.TransactionId)
		return n, nil
	},
	tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
		c := cmd.(*MessageAck)
		buf, err := headerTightWrite2(bs, c.CommandId, nil)
		if err != nil {
			return nil, err
		}
		if buf, err = consumerIdTightWrite2(bs, c.ConsumerId, buf); err != nil {
			return nil, err
		}
		if buf, err = destTightWrite2(bs, c.Destination, buf); err != nil {
			return nil, err
		}
		buf = WriteInt(buf, int32(c.AckType))
		if buf, err = messageIdTightWrite2(bs, c.FirstMessageId, buf); err != nil {
			return nil, err
		}
		if buf, err = messageIdTightWrite2(bs, c.LastMessageId, buf); err != nil {
			return nil, err
		}
		buf = WriteInt(buf, c.MessageCount)
		return txnIdPtrTightWrite2(bs, c.TransactionId, buf)
	},
	tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
		c := &MessageAck{}
		commandId, respReq, rest, err := headerTightRead(bs, data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.ConsumerId, rest, err = consumerIdTightRead(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		c.Destination, rest, err = destTightRead(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		at, rest, err := ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		c.AckType = AckType(at)
		c.FirstMessageId, rest, err = messageIdTightRead(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		c.LastMessageId, rest, err = messageIdTightRead(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		c.MessageCount, rest, err = ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		c.TransactionId, rest, err = txnIdPtrTightRead(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		return c, rest, nil
	},
	looseMarshal: func(cmd Command) ([]byte, error) {
		c := cmd.(*MessageAck)
		buf := headerLooseWrite(nil, c.CommandId, c.ResponseRequired)
		buf = consumerIdLooseWrite(buf, c.ConsumerId)
		buf = destLooseWrite(buf, c.Destination)
		buf = WriteInt(buf, int32(c.AckType))
		buf = messageIdLooseWrite(buf, c.FirstMessageId)
		buf = messageIdLooseWrite(buf, c.LastMessageId)
		buf = WriteInt(buf, c.MessageCount)
		return txnIdPtrLooseWrite(buf, c.TransactionId), nil
	},
	looseUnmarshal: func(data []byte) (Command, []byte, error) {
		c := &MessageAck{}
		commandId, respReq, rest, err := headerLooseRead(data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.ConsumerId, rest, err = consumerIdLooseRead(rest)
		if err != nil {
			return nil, nil, err
		}
		c.Destination, rest, err = destLooseRead(rest)
		if err != nil {
			return nil, nil, err
		}
		at, rest, err := ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		c.AckType = AckType(at)
		c.FirstMessageId, rest, err = messageIdLooseRead(rest)
		if err != nil {
			return nil, nil, err
		}
		c.LastMessageId, rest, err = messageIdLooseRead(rest)
		if err != nil {
			return nil, nil, err
		}
		c.MessageCount, rest, err = ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		c.TransactionId, rest, err = txnIdPtrLooseRead(rest)
		if err != nil {
			return nil, nil, err
		}
		return c, rest, nil
	},
}

var messagePullEntry = &marshalEntry{
	tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
		c := cmd.(*MessagePull)
		n := headerTightSize1(bs, c.ResponseRequired)
		n += consumerIdTightSize1(bs, c.ConsumerId)
		n += destTightSize1(bs, c.Destination)
		n += TightMarshalLong1(bs, c.Timeout)
		return n, nil
	},
	tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
		c := cmd.(*MessagePull)
		buf, err := headerTightWrite2(bs, c.CommandId, nil)
		if err != nil {
			return nil, err
		}
		if buf, err = consumerIdTightWrite2(bs, c.ConsumerId, buf); err != nil {
			return nil, err
		}
		if buf, err = destTightWrite2(bs, c.Destination, buf); err != nil {
			return nil, err
		}
		return TightMarshalLong2(bs, c.Timeout, buf)
	},
	tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
		c := &MessagePull{}
		commandId, respReq, rest, err := headerTightRead(bs, data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.ConsumerId, rest, err = consumerIdTightRead(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		c.Destination, rest, err = destTightRead(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		c.Timeout, rest, err = TightReadLong(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		return c, rest, nil
	},
	looseMarshal: func(cmd Command) ([]byte, error) {
		c := cmd.(*MessagePull)
		buf := headerLooseWrite(nil, c.CommandId, c.ResponseRequired)
		buf = consumerIdLooseWrite(buf, c.ConsumerId)
		buf = destLooseWrite(buf, c.Destination)
		return WriteLooseLong(buf, c.Timeout), nil
	},
	looseUnmarshal: func(data []byte) (Command, []byte, error) {
		c := &MessagePull{}
		commandId, respReq, rest, err := headerLooseRead(data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.ConsumerId, rest, err = consumerIdLooseRead(rest)
		if err != nil {
			return nil, nil, err
		}
		c.Destination, rest, err = destLooseRead(rest)
		if err != nil {
			return nil, nil, err
		}
		c.Timeout, rest, err = ReadLooseLong(rest)
		if err != nil {
			return nil, nil, err
		}
		return c, rest, nil
	},
}

var responseEntry = &marshalEntry{
	tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
		return headerTightSize1(bs, cmd.IsResponseRequired()) + 4, nil
	},
	tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
		c := cmd.(*Response)
		buf, err := headerTightWrite2(bs, c.CommandId, nil)
		if err != nil {
			return nil, err
		}
		return WriteInt(buf, c.CorrelationId), nil
	},
	tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
		c := &Response{}
		commandId, respReq, rest, err := headerTightRead(bs, data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.CorrelationId, rest, err = ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		return c, rest, nil
	},
	looseMarshal: func(cmd Command) ([]byte, error) {
		c := cmd.(*Response)
		buf := headerLooseWrite(nil, c.CommandId, c.ResponseRequired)
		return WriteInt(buf, c.CorrelationId), nil
	},
	looseUnmarshal: func(data []byte) (Command, []byte, error) {
		c := &Response{}
		commandId, respReq, rest, err := headerLooseRead(data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.CorrelationId, rest, err = ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		return c, rest, nil
	},
}

var exceptionResponseEntry = &marshalEntry{
	tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
		c := cmd.(*ExceptionResponse)
		n := headerTightSize1(bs, c.ResponseRequired)
		n += 4 // CorrelationId
		msg, trace := c.Message, c.StackTrace
		n += TightMarshalString1(bs, &msg)
		n += TightMarshalString1(bs, &trace)
		return n, nil
	},
	tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
		c := cmd.(*ExceptionResponse)
		buf, err := headerTightWrite2(bs, c.CommandId, nil)
		if err != nil {
			return nil, err
		}
		buf = WriteInt(buf, c.CorrelationId)
		msg, trace := c.Message, c.StackTrace
		if buf, err = TightMarshalString2(bs, &msg, buf); err != nil {
			return nil, err
		}
		return TightMarshalString2(bs, &trace, buf)
	},
	tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
		c := &ExceptionResponse{}
		commandId, respReq, rest, err := headerTightRead(bs, data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.CorrelationId, rest, err = ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		msg, rest, err := TightUnmarshalString(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		trace, rest, err := TightUnmarshalString(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		if msg != nil {
			c.Message = *msg
		}
		if trace != nil {
			c.StackTrace = *trace
		}
		return c, rest, nil
	},
	looseMarshal: func(cmd Command) ([]byte, error) {
		c := cmd.(*ExceptionResponse)
		buf := headerLooseWrite(nil, c.CommandId, c.ResponseRequired)
		buf = WriteInt(buf, c.CorrelationId)
		msg, trace := c.Message, c.StackTrace
		buf = WriteLooseString(buf, &msg)
		buf = WriteLooseString(buf, &trace)
		return buf, nil
	},
	looseUnmarshal: func(data []byte) (Command, []byte, error) {
		c := &ExceptionResponse{}
		commandId, respReq, rest, err := headerLooseRead(data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.CorrelationId, rest, err = ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		msg, rest, err := ReadLooseString(rest)
		if err != nil {
			return nil, nil, err
		}
		trace, rest, err := ReadLooseString(rest)
		if err != nil {
			return nil, nil, err
		}
		if msg != nil {
			c.Message = *msg
		}
		if trace != nil {
			c.StackTrace = *trace
		}
		return c, rest, nil
	},
}
