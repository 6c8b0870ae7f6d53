package restclient

// uploadBuffer is a consumable cursor over a fixed upload body. Each fill
// advances past the bytes it copied; once drained it reports 0 forever,
// which is the transport's end-of-upload signal. Single pass, no reset.
type uploadBuffer struct {
	data []byte
}

func newUploadBuffer(data []byte) *uploadBuffer {
	return &uploadBuffer{data: data}
}

// fill copies up to len(p) bytes into p and reports how many were supplied.
func (u *uploadBuffer) fill(p []byte) int {
	n := copy(p, u.data)
	u.data = u.data[n:]
	return n
}

func (u *uploadBuffer) remaining() int {
	return len(u.data)
}
