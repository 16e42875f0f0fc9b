package wireformat

var wireFormatInfoEntry = &marshalEntry{
	tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
		c := cmd.(*WireFormatInfo)
		n := headerTightSize1(bs, c.ResponseRequired)
		n += 4 // Version
		bs.WriteBoolean(c.TightEncodingEnabled)
		bs.WriteBoolean(c.SizePrefixDisabled)
		bs.WriteBoolean(c.CacheEnabled)
		n += 4 // CacheSize
		bs.WriteBoolean(c.StackTraceEnabled)
		bs.WriteBoolean(c.TcpNoDelayEnabled)
		n += TightMarshalLong1(bs, c.MaxInactivityDuration)
		n += TightMarshalLong1(bs, c.MaxInactivityDurationInitialDelay)
		return n, nil
	},
	tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
		c := cmd.(*WireFormatInfo)
		var buf []byte
		buf, err := headerTightWrite2(bs, c.CommandId, buf)
		if err != nil {
			return nil, err
		}
		buf = WriteInt(buf, c.Version)
		if _, err := bs.ReadBoolean(); err != nil {
			return nil, err
		}
		if _, err := bs.ReadBoolean(); err != nil {
			return nil, err
		}
		if _, err := bs.ReadBoolean(); err != nil {
			return nil, err
		}
		buf = WriteInt(buf, c.CacheSize)
		if _, err := bs.ReadBoolean(); err != nil {
			return nil, err
		}
		if _, err := bs.ReadBoolean(); err != nil {
			return nil, err
		}
		buf, err = TightMarshalLong2(bs, c.MaxInactivityDuration, buf)
		if err != nil {
			return nil, err
		}
		return TightMarshalLong2(bs, c.MaxInactivityDurationInitialDelay, buf)
	},
	tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
		c := &WireFormatInfo{}
		commandId, respReq, rest, err := headerTightRead(bs, data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.Version, rest, err = ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		if c.TightEncodingEnabled, err = bs.ReadBoolean(); err != nil {
			return nil, nil, err
		}
		if c.SizePrefixDisabled, err = bs.ReadBoolean(); err != nil {
			return nil, nil, err
		}
		if c.CacheEnabled, err = bs.ReadBoolean(); err != nil {
			return nil, nil, err
		}
		c.CacheSize, rest, err = ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		if c.StackTraceEnabled, err = bs.ReadBoolean(); err != nil {
			return nil, nil, err
		}
		if c.TcpNoDelayEnabled, err = bs.ReadBoolean(); err != nil {
			return nil, nil, err
		}
		c.MaxInactivityDuration, rest, err = TightReadLong(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		c.MaxInactivityDurationInitialDelay, rest, err = TightReadLong(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		return c, rest, nil
	},
	looseMarshal: func(cmd Command) ([]byte, error) {
		c := cmd.(*WireFormatInfo)
		buf := headerLooseWrite(nil, c.CommandId, c.ResponseRequired)
		buf = WriteInt(buf, c.Version)
		buf = WriteBool(buf, c.TightEncodingEnabled)
		buf = WriteBool(buf, c.SizePrefixDisabled)
		buf = WriteBool(buf, c.CacheEnabled)
		buf = WriteInt(buf, c.CacheSize)
		buf = WriteBool(buf, c.StackTraceEnabled)
		buf = WriteBool(buf, c.TcpNoDelayEnabled)
		buf = WriteLooseLong(buf, c.MaxInactivityDuration)
		buf = WriteLooseLong(buf, c.MaxInactivityDurationInitialDelay)
		return buf, nil
	},
	looseUnmarshal: func(data []byte) (Command, []byte, error) {
		c := &WireFormatInfo{}
		commandId, respReq, rest, err := headerLooseRead(data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		c.Version, rest, err = ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		if c.TightEncodingEnabled, rest, err = ReadBool(rest); err != nil {
			return nil, nil, err
		}
		if c.SizePrefixDisabled, rest, err = ReadBool(rest); err != nil {
			return nil, nil, err
		}
		if c.CacheEnabled, rest, err = ReadBool(rest); err != nil {
			return nil, nil, err
		}
		c.CacheSize, rest, err = ReadInt(rest)
		if err != nil {
			return nil, nil, err
		}
		if c.StackTraceEnabled, rest, err = ReadBool(rest); err != nil {
			return nil, nil, err
		}
		if c.TcpNoDelayEnabled, rest, err = ReadBool(rest); err != nil {
			return nil, nil, err
		}
		c.MaxInactivityDuration, rest, err = ReadLooseLong(rest)
		if err != nil {
			return nil, nil, err
		}
		c.MaxInactivityDurationInitialDelay, rest, err = ReadLooseLong(rest)
		if err != nil {
			return nil, nil, err
		}
		return c, rest, nil
	},
}

var brokerInfoEntry = &marshalEntry{
	tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
		c := cmd.(*BrokerInfo)
		n := headerTightSize1(bs, c.ResponseRequired)
		id, url, name := c.BrokerId, c.BrokerURL, c.BrokerName
		n += TightMarshalString1(bs, &id)
		n += TightMarshalString1(bs, &url)
		n += TightMarshalString1(bs, &name)
		return n, nil
	},
	tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
		c := cmd.(*BrokerInfo)
		buf, err := headerTightWrite2(bs, c.CommandId, nil)
		if err != nil {
			return nil, err
		}
		id, url, name := c.BrokerId, c.BrokerURL, c.BrokerName
		if buf, err = TightMarshalString2(bs, &id, buf); err != nil {
			return nil, err
		}
		if buf, err = TightMarshalString2(bs, &url, buf); err != nil {
			return nil, err
		}
		return TightMarshalString2(bs, &name, buf)
	},
	tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
		c := &BrokerInfo{}
		commandId, respReq, rest, err := headerTightRead(bs, data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		id, rest, err := TightUnmarshalString(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		url, rest, err := TightUnmarshalString(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		name, rest, err := TightUnmarshalString(bs, rest)
		if err != nil {
			return nil, nil, err
		}
		if id != nil {
			c.BrokerId = *id
		}
		if url != nil {
			c.BrokerURL = *url
		}
		if name != nil {
			c.BrokerName = *name
		}
		return c, rest, nil
	},
	looseMarshal: func(cmd Command) ([]byte, error) {
		c := cmd.(*BrokerInfo)
		buf := headerLooseWrite(nil, c.CommandId, c.ResponseRequired)
		id, url, name := c.BrokerId, c.BrokerURL, c.BrokerName
		buf = WriteLooseString(buf, &id)
		buf = WriteLooseString(buf, &url)
		buf = WriteLooseString(buf, &name)
		return buf, nil
	},
	looseUnmarshal: func(data []byte) (Command, []byte, error) {
		c := &BrokerInfo{}
		commandId, respReq, rest, err := headerLooseRead(data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
		id, rest, err := ReadLooseString(rest)
		if err != nil {
			return nil, nil, err
		}
		url, rest, err := ReadLooseString(rest)
		if err != nil {
			return nil, nil, err
		}
		name, rest, err := ReadLooseString(rest)
		if err != nil {
			return nil, nil, err
		}
		if id != nil {
			c.BrokerId = *id
		}
		if url != nil {
			c.BrokerURL = *url
		}
		if name != nil {
			c.BrokerName = *name
		}
		return c, rest, nil
	},
}

func emptyCommandEntry(build func() Command) *marshalEntry {
	return &marshalEntry{
		tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
			return headerTightSize1(bs, cmd.IsResponseRequired()), nil
		},
		tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
			return headerTightWrite2(bs, cmd.GetCommandId(), nil)
		},
		tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
			commandId, respReq, rest, err := headerTightRead(bs, data)
			if err != nil {
				return nil, nil, err
			}
			c := build()
			c.SetCommandId(commandId)
			c.SetResponseRequired(respReq)
			return c, rest, nil
		},
		looseMarshal: func(cmd Command) ([]byte, error) {
			return headerLooseWrite(nil, cmd.GetCommandId(), cmd.IsResponseRequired()), nil
		},
		looseUnmarshal: func(data []byte) (Command, []byte, error) {
			commandId, respReq, rest, err := headerLooseRead(data)
			if err != nil {
				return nil, nil, err
			}
			c := build()
			c.SetCommandId(commandId)
			c.SetResponseRequired(respReq)
			return c, rest, nil
		},
	}
}

var shutdownInfoEntry = emptyCommandEntry(func() Command { return &ShutdownInfo{} })
var keepAliveInfoEntry = emptyCommandEntry(func() Command { return &KeepAliveInfo{} })

var connectionErrorEntry = &marshalEntry{
	tightMarshal1: func(cmd Command, bs *BooleanStream) (int, error) {
		c := cmd.(*ConnectionError)
		n := headerTightSize1(bs, c.ResponseRequired)
		msg, trace := c.Message, c.StackTrace
		n += TightMarshalString1(bs, &msg)
		n += TightMarshalString1(bs, &trace)
		return n, nil
	},
	tightMarshal2: func(cmd Command, bs *BooleanStream) ([]byte, error) {
		c := cmd.(*ConnectionError)
		buf, err := headerTightWrite2(bs, c.CommandId, nil)
		if err != nil {
			return nil, err
		}
		msg, trace := c.Message, c.StackTrace
		if buf, err = TightMarshalString2(bs, &msg, buf); err != nil {
			return nil, err
		}
		return TightMarshalString2(bs, &trace, buf)
	},
	tightUnmarshal: func(bs *BooleanStream, data []byte) (Command, []byte, error) {
		c := &ConnectionError{}
		commandId, respReq, rest, err := headerTightRead(bs, data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
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
		c := cmd.(*ConnectionError)
		buf := headerLooseWrite(nil, c.CommandId, c.ResponseRequired)
		msg, trace := c.Message, c.StackTrace
		buf = WriteLooseString(buf, &msg)
		buf = WriteLooseString(buf, &trace)
		return buf, nil
	},
	looseUnmarshal: func(data []byte) (Command, []byte, error) {
		c := &ConnectionError{}
		commandId, respReq, rest, err := headerLooseRead(data)
		if err != nil {
			return nil, nil, err
		}
		c.CommandId, c.ResponseRequired = commandId, respReq
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
