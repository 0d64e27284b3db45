package bpflog

// WriteHeader writes the Target, Level, Module, File and Line fields into dst
// in that order and returns the number of bytes consumed. It stops at the
// first field that does not fit; fields written before it stay in dst but the
// buffer must not be sent.
func WriteHeader(dst []byte, target string, level Level, module, file string, line uint32) (int, error) {
	var levelBytes [LenSize]byte
	putLen(levelBytes[:], int(level))
	var lineBytes [LineSize]byte
	byteOrder.PutUint32(lineBytes[:], line)

	size := 0
	n, err := EncodeString(TargetField, target, dst)
	if err != nil {
		return size, err
	}
	size += n
	if n, err = EncodeField(LevelField, levelBytes[:], dst[size:]); err != nil {
		return size, err
	}
	size += n
	if n, err = EncodeString(ModuleField, module, dst[size:]); err != nil {
		return size, err
	}
	size += n
	if n, err = EncodeString(FileField, file, dst[size:]); err != nil {
		return size, err
	}
	size += n
	if n, err = EncodeField(LineField, lineBytes[:], dst[size:]); err != nil {
		return size, err
	}
	size += n
	return size, nil
}

// HeaderSize returns the number of bytes WriteHeader needs for the given
// string fields.
func HeaderSize(target, module, file string) int {
	return FieldSize(len(target)) +
		FieldSize(LenSize) +
		FieldSize(len(module)) +
		FieldSize(len(file)) +
		FieldSize(LineSize)
}
