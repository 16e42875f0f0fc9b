package wireformat

var connectionInfoEntry = &marshalEntry{
	tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
		c := cmd.(*ConnectionInfo)
		n := headerTightSize1(bs, c.ResponseRequired)
		n += connIdTightSize1(bs, c.ConnectionId)
		clientId, user, pass := c.ClientId, c.UserName, c.Password
		n += TightMarshalString1(bs, &clientId)
		n += TightMarshalString1(bs, &user)
		n += TightMarshalString1(bs, &pass)
		return n, nil
	},
	tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
		c := cmd.(*ConnectionInfo)
		buf, err := headerTightWrite2(bs, c.CommandId, nil)
		if err != nil {
			return nil, err
		}
		if buf, err = connIdTightWrite2(bs, c.ConnectionId, buf); err != nil {
			return nil, err
		}
		clientId, user, pass := c.ClientId, c.UserName, c.Password
		if buf, err = TightMarshalString2(bs, &clientId, buf); err != nil {
			return nil, err
		}
		if buf, err = TightMarshalString2(bs, &user, buf); err != nil {
			return nil, err
		}
		return TightMarshalString2(bs, &pass, buf)
	},
	tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
		c := &ConnectionInfo{}
		commandId, respReq, rest, err := headerTightRead(bs, data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.ConnectionId, rest, err = connIdTightRead(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		clientId, rest, err := TightUnmarshalString(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		user, rest, err := TightUnmarshalString(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		pass, rest, err := TightUnmarshalString(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		if clientId != nil {
			c.ClientId = *clientId
		}
		if user != nil {
			c.UserName = *user
		}
		if pass != nil {
			c.Password = *pass
		}
		return c, rest, nil
	},
	looseMarshal: func(cmd Command) ([]byte, error) {
		c := cmd.(*ConnectionInfo)
		buf := headerLooseWrite(nil, c.CommandId, c.ResponseRequired)
		buf = connIdLooseWrite(buf, c.ConnectionId)
		clientId, user, pass := c.ClientId, c.UserName, c.Password
		buf = WriteLooseString(buf, &clientId)
		buf = WriteLooseString(buf, &user)
		buf = WriteLooseString(buf, &pass)
		return buf, nil
	},
	looseUnmarshal: func(data []byte) (Command, []byte, error) {
		c := &ConnectionInfo{}
		commandId, respReq, rest, err := headerLooseRead(data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.ConnectionId, rest, err = connIdLooseRead(rest)
		if err != nil {
			return nil, nil, err
		}
		clientId, rest, err := ReadLooseString(rest)
		if err != nil {
			return nil, nil, err
		}
		user, rest, err := ReadLooseString(rest)
		if err != nil {
			return nil, nil, err
		}
		pass, rest, err := ReadLooseString(rest)
		if err != nil {
			return nil, nil, err
		}
		if clientId != nil {
			c.ClientId = *clientId
		}
		if user != nil {
			c.UserName = *user
		}
		if pass != nil {
			c.Password = *pass
		}
		return c, rest, nil
	},
}

var sessionInfoEntry = &marshalEntry{
	tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
		c := cmd.(*SessionInfo)
		n := headerTightSize1(bs, c.ResponseRequired)
		n += sessionIdTightSize1(bs, c.SessionId)
		return n, nil
	},
	tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
		c := cmd.(*SessionInfo)
		buf, err := headerTightWrite2(bs, c.CommandId, nil)
		if err != nil {
			return nil, err
		}
		return sessionIdTightWrite2(bs, c.SessionId, buf)
	},
	tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
		c := &SessionInfo{}
		commandId, respReq, rest, err := headerTightRead(bs, data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.SessionId, rest, err = sessionIdTightRead(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		return c, rest, nil
	},
	looseMarshal: func(cmd Command) ([]byte, error) {
		c := cmd.(*SessionInfo)
		buf := headerLooseWrite(nil, c.CommandId, c.ResponseRequired)
		buf = sessionIdLooseWrite(buf, c.SessionId)
		return buf, nil
	},
	looseUnmarshal: func(data []byte) (Command, []byte, error) {
		c := &SessionInfo{}
		commandId, respReq, rest, err := headerLooseRead(data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.SessionId, rest, err = sessionIdLooseRead(rest)
		if err != nil {
			return nil, nil, err
		}
		return c, rest, nil
	},
}

var consumerInfoEntry = &marshalEntry{
	tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
		c := cmd.(*ConsumerInfo)
		n := headerTightSize1(bs, c.ResponseRequired)
		n += consumerIdTightSize1(bs, c.ConsumerId)
		n += destTightSize1(bs, c.Destination)
		sel := c.Selector
		n += TightMarshalString1(bs, &sel)
		n += 4 + 4 // PrefetchSize, MaximumPendingMessageLimit
		bs.WriteBoolean(c.NoLocal)
		bs.WriteBoolean(c.Browser)
		bs.WriteBoolean(c.DispatchAsync)
		bs.WriteBoolean(c.Exclusive)
		bs.WriteBoolean(c.Retroactive)
		bs.WriteBoolean(c.NetworkSubscription)
		n += 1 // Priority
		return n, nil
	},
	tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
		c := cmd.(*ConsumerInfo)
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
		sel := c.Selector
		if buf, err = TightMarshalString2(bs, &sel, buf); err != nil {
			return nil, err
		}
		buf = WriteInt(buf, c.PrefetchSize)
		buf = WriteInt(buf, c.MaximumPendingMessageLimit)
		for i := 0; i < 6; i++ {
			if _, err := bs.ReadBoolean(); err != nil {
				return nil, err
			}
		}
		buf = append(buf, byte(c.Priority))
		return buf, nil
	},
	tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
		c := &ConsumerInfo{}
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
		sel, rest, err := TightUnmarshalString(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		if sel != nil {
			c.Selector = *sel
		}
		c.PrefetchSize, rest, err = ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		c.MaximumPendingMessageLimit, rest, err = ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		if c.NoLocal, err = bs.ReadBoolean(); err != nil {
			return nil, nil, err
		}
		if c.Browser, err = bs.ReadBoolean(); err != nil {
			return nil, nil, err
		}
		if c.DispatchAsync, err = bs.ReadBoolean(); err != nil {
			return nil, nil, err
		}
		if c.Exclusive, err = bs.ReadBoolean(); err != nil {
			return nil, nil, err
		}
		if c.Retroactive, err = bs.ReadBoolean(); err != nil {
			return nil, nil, err
		}
		if c.NetworkSubscription, err = bs.ReadBoolean(); err != nil {
			return nil, nil, err
		}
		if len(rest) < 1 {
			return nil, nil, &TruncatedFrameError{Want: 1, Got: len(rest)}
		}
		c.Priority = int8(rest[0])
		rest = rest[1:]
		return c, rest, nil
	},
	looseMarshal: func(cmd Command) ([]byte, error) {
		c := cmd.(*ConsumerInfo)
		buf := headerLooseWrite(nil, c.CommandId, c.ResponseRequired)
		buf = consumerIdLooseWrite(buf, c.ConsumerId)
		buf = destLooseWrite(buf, c.Destination)
		sel := c.Selector
		buf = WriteLooseString(buf, &sel)
		buf = WriteInt(buf, c.PrefetchSize)
		buf = WriteInt(buf, c.MaximumPendingMessageLimit)
		buf = WriteBool(buf, c.NoLocal)
		buf = WriteBool(buf, c.Browser)
		buf = WriteBool(buf, c.DispatchAsync)
		buf = WriteBool(buf, c.Exclusive)
		buf = WriteBool(buf, c.Retroactive)
		buf = WriteBool(buf, c.NetworkSubscription)
		buf = append(buf, byte(c.Priority))
		return buf, nil
	},
	looseUnmarshal: func(data []byte) (Command, []byte, error) {
		c := &ConsumerInfo{}
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
		sel, rest, err := ReadLooseString(rest)
		if err != nil {
			return nil, nil, err
		}
		if sel != nil {
			c.Selector = *sel
		}
		c.PrefetchSize, rest, err = ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		c.MaximumPendingMessageLimit, rest, err = ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		if c.NoLocal, rest, err = ReadBool(rest); err != nil {
			return nil, nil, err
		}
		if c.Browser, rest, err = ReadBool(rest); err != nil {
			return nil, nil, err
		}
		if c.DispatchAsync, rest, err = ReadBool(rest); err != nil {
			return nil, nil, err
		}
		if c.Exclusive, rest, err = ReadBool(rest); err != nil {
			return nil, nil, err
		}
		if c.Retroactive, rest, err = ReadBool(rest); err != nil {
			return nil, nil, err
		}
		if c.NetworkSubscription, rest, err = ReadBool(rest); err != nil {
			return nil, nil, err
		}
		if len(rest) < 1 {
			return nil, nil, &TruncatedFrameError{Want: 1, Got: len(rest)}
		}
		c.Priority = int8(rest[0])
		rest = rest[1:]
		return c, rest, nil
	},
}

var producerInfoEntry = &marshalEntry{
	tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
		c := cmd.(*ProducerInfo)
		n := headerTightSize1(bs, c.ResponseRequired)
		n += producerIdTightSize1(bs, c.ProducerId)
		n += destPtrTightSize1(bs, c.Destination)
		return n, nil
	},
	tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
		c := cmd.(*ProducerInfo)
		buf, err := headerTightWrite2(bs, c.CommandId, nil)
		if err != nil {
			return nil, err
		}
		if buf, err = producerIdTightWrite2(bs, c.ProducerId, buf); err != nil {
			return nil, err
		}
		return destPtrTightWrite2(bs, c.Destination, buf)
	},
	tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
		c := &ProducerInfo{}
		commandId, respReq, rest, err := headerTightRead(bs, data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.ProducerId, rest, err = producerIdTightRead(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		c.Destination, rest, err = destPtrTightRead(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		return c, rest, nil
	},
	looseMarshal: func(cmd Command) ([]byte, error) {
		c := cmd.(*ProducerInfo)
		buf := headerLooseWrite(nil, c.CommandId, c.ResponseRequired)
		buf = producerIdLooseWrite(buf, c.ProducerId)
		buf = destPtrLooseWrite(buf, c.Destination)
		return buf, nil
	},
	looseUnmarshal: func(data []byte) (Command, []byte, error) {
		c := &ProducerInfo{}
		commandId, respReq, rest, err := headerLooseRead(data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.ProducerId, rest, err = producerIdLooseRead(rest)
		if err != nil {
			return nil, nil, err
		}
		c.Destination, rest, err = destPtrLooseRead(rest)
		if err != nil {
			return nil, nil, err
		}
		return c, rest, nil
	},
}

var removeInfoEntry = &marshalEntry{
	tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
		c := cmd.(*RemoveInfo)
		n := headerTightSize1(bs, c.ResponseRequired)
		id := c.ObjectId
		n += TightMarshalString1(bs, &id)
		return n, nil
	},
	tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
		c := cmd.(*RemoveInfo)
		buf, err := headerTightWrite2(bs, c.CommandId, nil)
		if err != nil {
			return nil, err
		}
		id := c.ObjectId
		return TightMarshalString2(bs, &id, buf)
	},
	tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
		c := &RemoveInfo{}
		commandId, respReq, rest, err := headerTightRead(bs, data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		id, rest, err := TightUnmarshalString(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		if id != nil {
			c.ObjectId = *id
		}
		return c, rest, nil
	},
	looseMarshal: func(cmd Command) ([]byte, error) {
		c := cmd.(*RemoveInfo)
		buf := headerLooseWrite(nil, c.CommandId, c.ResponseRequired)
		id := c.ObjectId
		buf = WriteLooseString(buf, &id)
		return buf, nil
	},
	looseUnmarshal: func(data []byte) (Command, []byte, error) {
		c := &RemoveInfo{}
		commandId, respReq, rest, err := headerLooseRead(data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		id, rest, err := ReadLooseString(rest)
		if err != nil {
			return nil, nil, err
		}
		if id != nil {
			c.ObjectId = *id
		}
		return c, rest, nil
	},
}

var destinationInfoEntry = &marshalEntry{
	tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
		c := cmd.(*DestinationInfo)
		n := headerTightSize1(bs, c.ResponseRequired)
		n += connIdTightSize1(bs, c.ConnectionId)
		n += destTightSize1(bs, c.Destination)
		n += 4 // Operation
		return n, nil
	},
	tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
		c := cmd.(*DestinationInfo)
		buf, err := headerTightWrite2(bs, c.CommandId, nil)
		if err != nil {
			return nil, err
		}
		if buf, err = connIdTightWrite2(bs, c.ConnectionId, buf); err != nil {
			return nil, err
		}
		if buf, err = destTightWrite2(bs, c.Destination, buf); err != nil {
			return nil, err
		}
		return WriteInt(buf, int32(c.Operation)), nil
	},
	tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
		c := &DestinationInfo{}
		commandId, respReq, rest, err := headerTightRead(bs, data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.ConnectionId, rest, err = connIdTightRead(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		c.Destination, rest, err = destTightRead(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		op, rest, err := ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		c.Operation = DestinationOperation(op)
		return c, rest, nil
	},
	looseMarshal: func(cmd Command) ([]byte, error) {
		c := cmd.(*DestinationInfo)
		buf := headerLooseWrite(nil, c.CommandId, c.ResponseRequired)
		buf = connIdLooseWrite(buf, c.ConnectionId)
		buf = destLooseWrite(buf, c.Destination)
		buf = WriteInt(buf, int32(c.Operation))
		return buf, nil
	},
	looseUnmarshal: func(data []byte) (Command, []byte, error) {
		c := &DestinationInfo{}
		commandId, respReq, rest, err := headerLooseRead(data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.ConnectionId, rest, err = connIdLooseRead(rest)
		if err != nil {
			return nil, nil, err
		}
		c.Destination, rest, err = destLooseRead(rest)
		if err != nil {
			return nil, nil, err
		}
		op, rest, err := ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		c.Operation = DestinationOperation(op)
		return c, rest, nil
	},
}

var transactionInfoEntry = &marshalEntry{
	tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
		c := cmd.(*TransactionInfo)
		n := headerTightSize1(bs, c.ResponseRequired)
		n += txnIdTightSize1(bs, c.TransactionId)
		n += 4 // Type
		return n, nil
	},
	tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
		c := cmd.(*TransactionInfo)
		buf, err := headerTightWrite2(bs, c.CommandId, nil)
		if err != nil {
			return nil, err
		}
		if buf, err = txnIdTightWrite2(bs, c.TransactionId, buf); err != nil {
			return nil, err
		}
		return WriteInt(buf, int32(c.Type)), nil
	},
	tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
		c := &TransactionInfo{}
		commandId, respReq, rest, err := headerTightRead(bs, data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.TransactionId, rest, err = txnIdTightRead(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		t, rest, err := ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		c.Type = TransactionType(t)
		return c, rest, nil
	},
	looseMarshal: func(cmd Command) ([]byte, error) {
		c := cmd.(*TransactionInfo)
		buf := headerLooseWrite(nil, c.CommandId, c.ResponseRequired)
		buf = txnIdLooseWrite(buf, c.TransactionId)
		buf = WriteInt(buf, int32(c.Type))
		return buf, nil
	},
	looseUnmarshal: func(data []byte) (Command, []byte, error) {
		c := &TransactionInfo{}
		commandId, respReq, rest, err := headerLooseRead(data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.TransactionId, rest, err = txnIdLooseRead(rest)
		if err != nil {
			return nil, nil, err
		}
		t, rest, err := ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		c.Type = TransactionType(t)
		return c, rest, nil
	},
}
