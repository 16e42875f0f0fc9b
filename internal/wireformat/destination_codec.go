package wireformat

import "github.com/tenzoki/gowire/internal/destination"

// Destinations are encoded as a kind byte, a tight/loose string for the
// physical name, and a tight/loose string for the owner connection id
// (empty for non-temporary destinations).

func destTightSize1(bs *BooleanStream, d destination.Destination) int {
	name := d.PhysicalName
	owner := d.OwnerConnID
	return 1 + TightMarshalString1(bs, &name) + TightMarshalString1(bs, &owner)
}

func destTightWrite2(bs *BooleanStream, d destination.Destination, buf []byte) ([]byte, error) {
	buf = append(buf, byte(d.Kind))
	name := d.PhysicalName
	buf, err := TightMarshalString2(bs, &name, buf)
	if err != nil {
		return nil, err
	}
	owner := d.OwnerConnID
	return TightMarshalString2(bs, &owner, buf)
}

func destTightRead(bs *BooleanStream, data []byte) (destination.Destination, []byte, error) {
	if len(data) < 1 {
		return destination.Destination{}, nil, &TruncatedFrameError{Want: 1, Got: len(data)}
	}
	kind := destination.Kind(data[0])
	data = data[1:]
	name, data, err := TightUnmarshalString(bs, data)
	if err != nil {
		return destination.Destination{}, nil, err
	}
	owner, data, err := TightUnmarshalString(bs, data)
	if err != nil {
		return destination.Destination{}, nil, err
	}
	d := destination.Destination{Kind: kind}
	if name != nil {
		d.PhysicalName = *name
	}
	if owner != nil {
		d.OwnerConnID = *owner
	}
	return d, data, nil
}

func destLooseWrite(buf []byte, d destination.Destination) []byte {
	buf = append(buf, byte(d.Kind))
	name := d.PhysicalName
	buf = WriteLooseString(buf, &name)
	owner := d.OwnerConnID
	return WriteLooseString(buf, &owner)
}

func destLooseRead(data []byte) (destination.Destination, []byte, error) {
	if len(data) < 1 {
		return destination.Destination{}, nil, &TruncatedFrameError{Want: 1, Got: len(data)}
	}
	kind := destination.Kind(data[0])
	data = data[1:]
	name, data, err := ReadLooseString(data)
	if err != nil {
		return destination.Destination{}, nil, err
	}
	owner, data, err := ReadLooseString(data)
	if err != nil {
		return destination.Destination{}, nil, err
	}
	d := destination.Destination{Kind: kind}
	if name != nil {
		d.PhysicalName = *name
	}
	if owner != nil {
		d.OwnerConnID = *owner
	}
	return d, data, nil
}

// destPtrTightSize1/destPtrTightWrite2/destPtrTightRead handle the nilable
// ReplyTo field: a leading presence bit, then the same layout as above.

func destPtrTightSize1(bs *BooleanStream, d *destination.Destination) int {
	if d == nil {
		bs.WriteBoolean(false)
		return 0
	}
	bs.WriteBoolean(true)
	return destTightSize1(bs, *d)
}

func destPtrTightWrite2(bs *BooleanStream, d *destination.Destination, buf []byte) ([]byte, error) {
	present, err := bs.ReadBoolean()
	if err != nil {
		return nil, err
	}
	if !present {
		return buf, nil
	}
	return destTightWrite2(bs, *d, buf)
}

func destPtrTightRead(bs *BooleanStream, data []byte) (*destination.Destination, []byte, error) {
	present, err := bs.ReadBoolean()
	if err != nil {
		return nil, nil, err
	}
	if !present {
		return nil, data, nil
	}
	d, rest, err := destTightRead(bs, data)
	if err != nil {
		return nil, nil, err
	}
	return &d, rest, nil
}

func destPtrLooseWrite(buf []byte, d *destination.Destination) []byte {
	if d == nil {
		return WriteBool(buf, false)
	}
	buf = WriteBool(buf, true)
	return destLooseWrite(buf, *d)
}

func destPtrLooseRead(data []byte) (*destination.Destination, []byte, error) {
	present, rest, err := ReadBool(data)
	if err != nil {
		return nil, nil, err
	}
	if !present {
		return nil, rest, nil
	}
	d, rest, err := destLooseRead(rest)
	if err != nil {
		return nil, nil, err
	}
	return &d, rest, nil
}
