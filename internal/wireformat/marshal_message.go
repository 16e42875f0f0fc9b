package wireformat

// bodyTightSize1/bodyTightWrite2/bodyTightRead (and their loose
// counterparts below) encode exactly the one Body field Kind selects.
// PreMarshalled, when set, is used verbatim in place of recomputing the
// structured encoding — the MarshalAware escape hatch of spec.md §4.1 for
// a Message that's being re-sent unmodified. A received Message always
// decodes structurally; PreMarshalled is a send-side cache only and is
// never populated by unmarshal.

func bodyTightSize1(bs *BooleanStream, kind BodyKind, b *Body, preMarshalled []byte) (int, error) {
	if preMarshalled != nil {
		return len(preMarshalled), nil
	}
	switch kind {
	case BodyText:
		return TightMarshalString1(bs, &b.Text), nil
	case BodyBytes:
		return 4 + len(b.Bytes), nil
	case BodyObject:
		return 4 + len(b.Object), nil
	case BodyMap:
		buf, err := WriteValueMap(nil, b.Map)
		if err != nil {
			return 0, err
		}
		return len(buf), nil
	case BodyStream:
		buf, err := writeStream(nil, b.Stream)
		if err != nil {
			return 0, err
		}
		return len(buf), nil
	default:
		return 0, nil
	}
}

func bodyTightWrite2(bs *BooleanStream, kind BodyKind, b *Body, preMarshalled []byte, buf []byte) ([]byte, error) {
	if preMarshalled != nil {
		return append(buf, preMarshalled...), nil
	}
	switch kind {
	case BodyText:
		return TightMarshalString2(bs, &b.Text, buf)
	case BodyBytes:
		buf = WriteInt(buf, int32(len(b.Bytes)))
		return append(buf, b.Bytes...), nil
	case BodyObject:
		buf = WriteInt(buf, int32(len(b.Object)))
		return append(buf, b.Object...), nil
	case BodyMap:
		return WriteValueMap(buf, b.Map)
	case BodyStream:
		return writeStream(buf, b.Stream)
	default:
		return buf, nil
	}
}

func bodyTightRead(bs *BooleanStream, kind BodyKind, data []byte) (Body, []byte, error) {
	switch kind {
	case BodyText:
		s, rest, err := TightUnmarshalString(bs, data)
		if err != nil {
			return Body{}, nil, err
		}
		text := ""
		if s != nil {
			text = *s
		}
		return Body{Kind: kind, Text: text}, rest, nil
	case BodyBytes:
		n, rest, err := ReadInt(data)
		if err != nil {
			return Body{}, nil, err
		}
		if len(rest) < int(n) {
			return Body{}, nil, &TruncatedFrameError{Want: int(n), Got: len(rest)}
		}
		out := make([]byte, n)
		copy(out, rest[:n])
		return Body{Kind: kind, Bytes: out}, rest[n:], nil
	case BodyObject:
		n, rest, err := ReadInt(data)
		if err != nil {
			return Body{}, nil, err
		}
		if len(rest) < int(n) {
			return Body{}, nil, &TruncatedFrameError{Want: int(n), Got: len(rest)}
		}
		out := make([]byte, n)
		copy(out, rest[:n])
		return Body{Kind: kind, Object: out}, rest[n:], nil
	case BodyMap:
		m, rest, err := ReadValueMap(data)
		if err != nil {
			return Body{}, nil, err
		}
		return Body{Kind: kind, Map: m}, rest, nil
	case BodyStream:
		s, rest, err := readStream(data)
		if err != nil {
			return Body{}, nil, err
		}
		return Body{Kind: kind, Stream: s}, rest, nil
	default:
		return Body{Kind: kind}, data, nil
	}
}

func bodyLooseWrite(kind BodyKind, b *Body, preMarshalled []byte, buf []byte) ([]byte, error) {
	if preMarshalled != nil {
		return append(buf, preMarshalled...), nil
	}
	switch kind {
	case BodyText:
		return WriteLooseString(buf, &b.Text), nil
	case BodyBytes:
		buf = WriteInt(buf, int32(len(b.Bytes)))
		return append(buf, b.Bytes...), nil
	case BodyObject:
		buf = WriteInt(buf, int32(len(b.Object)))
		return append(buf, b.Object...), nil
	case BodyMap:
		return WriteValueMap(buf, b.Map)
	case BodyStream:
		return writeStream(buf, b.Stream)
	default:
		return buf, nil
	}
}

func bodyLooseRead(kind BodyKind, data []byte) (Body, []byte, error) {
	// Identical wire layout to the tight body for every kind here — only
	// the surrounding header fields differ between encodings.
	return bodyTightRead(nil, kind, data)
}

// messageEntry builds the marshalEntry for one BodyKind. All five JMS
// message kinds share the same header layout (spec.md §9: "common header
// fields live outside the variant"); only the Body encode/decode differs.
func messageEntry(kind BodyKind) *marshalEntry {
	return &marshalEntry{
		tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
			m := cmd.(*Message)
			n := headerTightSize1(bs, m.ResponseRequired)
			n += messageIdTightSize1(bs, m.MessageId)
			n += producerIdTightSize1(bs, m.ProducerId)
			n += destTightSize1(bs, m.Destination)
			n += destPtrTightSize1(bs, m.ReplyTo)
			corrId := m.CorrelationId
			n += TightMarshalString1(bs, &corrId)
			n += TightMarshalLong1(bs, m.Timestamp)
			n += TightMarshalLong1(bs, m.Expiration)
			n += 1 // Priority
			bs.WriteBoolean(m.Persistent)
			typ := m.Type
			n += TightMarshalString1(bs, &typ)
			groupId := m.GroupId
			n += TightMarshalString1(bs, &groupId)
			n += 4 // GroupSequence
			n += 2 // RedeliveryCounter
			n += TightMarshalLong1(bs, m.BrokerSequenceId)
			propBuf, err := WriteValueMap(nil, m.Properties)
			if err != nil {
				return 0, err
			}
			n += 4 + len(propBuf) // length-prefixed so body decode can skip it if ever needed
			bodyN, err := bodyTightSize1(bs, kind, &m.Body, m.PreMarshalled)
			if err != nil {
				return 0, err
			}
			n += bodyN
			return n, nil
		},
		tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
			m := cmd.(*Message)
			buf, err := headerTightWrite2(bs, m.CommandId, nil)
			if err != nil {
				return nil, err
			}
			if buf, err = messageIdTightWrite2(bs, m.MessageId, buf); err != nil {
				return nil, err
			}
			if buf, err = producerIdTightWrite2(bs, m.ProducerId, buf); err != nil {
				return nil, err
			}
			if buf, err = destTightWrite2(bs, m.Destination, buf); err != nil {
				return nil, err
			}
			if buf, err = destPtrTightWrite2(bs, m.ReplyTo, buf); err != nil {
				return nil, err
			}
			corrId := m.CorrelationId
			if buf, err = TightMarshalString2(bs, &corrId, buf); err != nil {
				return nil, err
			}
			if buf, err = TightMarshalLong2(bs, m.Timestamp, buf); err != nil {
				return nil, err
			}
			if buf, err = TightMarshalLong2(bs, m.Expiration, buf); err != nil {
				return nil, err
			}
			buf = append(buf, byte(m.Priority))
			if _, err := bs.ReadBoolean(); err != nil {
				return nil, err
			}
			typ := m.Type
			if buf, err = TightMarshalString2(bs, &typ, buf); err != nil {
				return nil, err
			}
			groupId := m.GroupId
			if buf, err = TightMarshalString2(bs, &groupId, buf); err != nil {
				return nil, err
			}
			buf = WriteInt(buf, m.GroupSequence)
			buf = WriteShort(buf, m.RedeliveryCounter)
			if buf, err = TightMarshalLong2(bs, m.BrokerSequenceId, buf); err != nil {
				return nil, err
			}
			propBuf, err := WriteValueMap(nil, m.Properties)
			if err != nil {
				return nil, err
			}
			buf = WriteInt(buf, int32(len(propBuf)))
			buf = append(buf, propBuf...)
			return bodyTightWrite2(bs, kind, &m.Body, m.PreMarshalled, buf)
		},
		tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
			m := &Message{Body: Body{Kind: kind}}
			commandId, respReq, rest, err := headerTightRead(bs, data)
			if err != nil {
				return nil, nil, err
			}
			m.CommandId, m.ResponseRequired = commandId, respReq
			m.MessageId, rest, err = messageIdTightRead(bs, rest)
			if err != nil {
				return nil, nil, err
			}
			m.ProducerId, rest, err = producerIdTightRead(bs, rest)
			if err != nil {
				return nil, nil, err
			}
			m.Destination, rest, err = destTightRead(bs, rest)
			if err != nil {
				return nil, nil, err
			}
			m.ReplyTo, rest, err = destPtrTightRead(bs, rest)
			if err != nil {
				return nil, nil, err
			}
			corrId, rest, err := TightUnmarshalString(bs, rest)
			if err != nil {
				return nil, nil, err
			}
			if corrId != nil {
				m.CorrelationId = *corrId
			}
			m.Timestamp, rest, err = TightReadLong(bs, rest)
			if err != nil {
				return nil, nil, err
			}
			m.Expiration, rest, err = TightReadLong(bs, rest)
			if err != nil {
				return nil, nil, err
			}
			if len(rest) < 1 {
				return nil, nil, &TruncatedFrameError{Want: 1, Got: len(rest)}
			}
			m.Priority = int8(rest[0])
			rest = rest[1:]
			if m.Persistent, err = bs.ReadBoolean(); err != nil {
				return nil, nil, err
			}
			typ, rest, err := TightUnmarshalString(bs, rest)
			if err != nil {
				return nil, nil, err
			}
			if typ != nil {
				m.Type = *typ
			}
			groupId, rest, err := TightUnmarshalString(bs, rest)
			if err != nil {
				return nil, nil, err
			}
			if groupId != nil {
				m.GroupId = *groupId
			}
			m.GroupSequence, rest, err = ReadInt(rest)
			if err != nil {
				return nil, nil, err
			}
			m.RedeliveryCounter, rest, err = ReadShort(rest)
			if err != nil {
				return nil, nil, err
			}
			m.BrokerSequenceId, rest, err = TightReadLong(bs, rest)
			if err != nil {
				return nil, nil, err
			}
			propLen, rest, err := ReadInt(rest)
			if err != nil {
				return nil, nil, err
			}
			if len(rest) < int(propLen) {
				return nil, nil, &TruncatedFrameError{Want: int(propLen), Got: len(rest)}
			}
			m.Properties, _, err = ReadValueMap(rest[:propLen])
			if err != nil {
				return nil, nil, err
			}
			rest = rest[propLen:]
			m.Body, rest, err = bodyTightRead(bs, kind, rest)
			if err != nil {
				return nil, nil, err
			}
			return m, rest, nil
		},
		looseMarshal: func(cmd Command) ([]byte, error) {
			m := cmd.(*Message)
			buf := headerLooseWrite(nil, m.CommandId, m.ResponseRequired)
			buf = messageIdLooseWrite(buf, m.MessageId)
			buf = producerIdLooseWrite(buf, m.ProducerId)
			buf = destLooseWrite(buf, m.Destination)
			buf = destPtrLooseWrite(buf, m.ReplyTo)
			corrId := m.CorrelationId
			buf = WriteLooseString(buf, &corrId)
			buf = WriteLooseLong(buf, m.Timestamp)
			buf = WriteLooseLong(buf, m.Expiration)
			buf = append(buf, byte(m.Priority))
			buf = WriteBool(buf, m.Persistent)
			typ := m.Type
			buf = WriteLooseString(buf, &typ)
			groupId := m.GroupId
			buf = WriteLooseString(buf, &groupId)
			buf = WriteInt(buf, m.GroupSequence)
			buf = WriteShort(buf, m.RedeliveryCounter)
			buf = WriteLooseLong(buf, m.BrokerSequenceId)
			propBuf, err := WriteValueMap(nil, m.Properties)
			if err != nil {
				return nil, err
			}
			buf = WriteInt(buf, int32(len(propBuf)))
			buf = append(buf, propBuf...)
			return bodyLooseWrite(kind, &m.Body, m.PreMarshalled, buf)
		},
		looseUnmarshal: func(data []byte) (Command, []byte, error) {
			m := &Message{Body: Body{Kind: kind}}
			commandId, respReq, rest, err := headerLooseRead(data)
			if err != nil {
				return nil, nil, err
			}
			m.CommandId, m.ResponseRequired = commandId, respReq
			m.MessageId, rest, err = messageIdLooseRead(rest)
			if err != nil {
				return nil, nil, err
			}
			m.ProducerId, rest, err = producerIdLooseRead(rest)
			if err != nil {
				return nil, nil, err
			}
			m.Destination, rest, err = destLooseRead(rest)
			if err != nil {
				return nil, nil, err
			}
			m.ReplyTo, rest, err = destPtrLooseRead(rest)
			if err != nil {
				return nil, nil, err
			}
			corrId, rest, err := ReadLooseString(rest)
			if err != nil {
				return nil, nil, err
			}
			if corrId != nil {
				m.CorrelationId = *corrId
			}
			m.Timestamp, rest, err = ReadLooseLong(rest)
			if err != nil {
				return nil, nil, err
			}
			m.Expiration, rest, err = ReadLooseLong(rest)
			if err != nil {
				return nil, nil, err
			}
			if len(rest) < 1 {
				return nil, nil, &TruncatedFrameError{Want: 1, Got: len(rest)}
			}
			m.Priority = int8(rest[0])
			rest = rest[1:]
			if m.Persistent, rest, err = ReadBool(rest); err != nil {
				return nil, nil, err
			}
			typ, rest, err := ReadLooseString(rest)
			if err != nil {
				return nil, nil, err
			}
			if typ != nil {
				m.Type = *typ
			}
			groupId, rest, err := ReadLooseString(rest)
			if err != nil {
				return nil, nil, err
			}
			if groupId != nil {
				m.GroupId = *groupId
			}
			m.GroupSequence, rest, err = ReadInt(rest)
			if err != nil {
				return nil, nil, err
			}
			m.RedeliveryCounter, rest, err = ReadShort(rest)
			if err != nil {
				return nil, nil, err
			}
			m.BrokerSequenceId, rest, err = ReadLooseLong(rest)
			if err != nil {
				return nil, nil, err
			}
			propLen, rest, err := ReadInt(rest)
			if err != nil {
				return nil, nil, err
			}
			if len(rest) < int(propLen) {
				return nil, nil, &TruncatedFrameError{Want: int(propLen), Got: len(rest)}
			}
			m.Properties, _, err = ReadValueMap(rest[:propLen])
			if err != nil {
				return nil, nil, err
			}
			rest = rest[propLen:]
			m.Body, rest, err = bodyLooseRead(kind, rest)
			if err != nil {
				return nil, nil, err
			}
			return m, rest, nil
		},
	}
}
