package wireformat

// Every command shares a two-field header: CommandId (a plain, never
// compacted int) and ResponseRequired. In tight encoding ResponseRequired
// rides in the shared boolean-bit stream rather than the body, exactly
// like every other boolean field; CommandId always occupies 4 body bytes
// since it isn't worth compacting a field that's rarely small in practice.

func headerTightSize1(bs *BooleanStream, responseRequired bool) int {
	bs.WriteBoolean(responseRequired)
	return 4
}

func headerTightWrite2(bs *BooleanStream, commandId int32, buf []byte) ([]byte, error) {
	if _, err := bs.ReadBoolean(); err != nil {
		return nil, err
	}
	return WriteInt(buf, commandId), nil
}

func headerTightRead(bs *BooleanStream, data []byte) (commandId int32, responseRequired bool, rest []byte, err error) {
	responseRequired, err = bs.ReadBoolean()
	if err != nil {
		return
	}
	commandId, rest, err = ReadInt(data)
	return
}

func headerLooseWrite(buf []byte, commandId int32, responseRequired bool) []byte {
	buf = WriteInt(buf, commandId)
	return WriteBool(buf, responseRequired)
}

func headerLooseRead(data []byte) (commandId int32, responseRequired bool, rest []byte, err error) {
	commandId, rest, err = ReadInt(data)
	if err != nil {
		return
	}
	responseRequired, rest, err = ReadBool(rest)
	return
}
