package wxr

import "io"

// charFilter drops the C0 control bytes XML 1.0 forbids, such as stray
// U+000B pasted into post bodies. Every encoding the decoder accepts is
// ASCII-compatible, so this runs before charset decoding.
type charFilter struct {
	src    io.Reader
	offset int64
	onDrop func(offset int64, c byte)
}

func (f *charFilter) Read(p []byte) (int, error) {
	for {
		n, err := f.src.Read(p)
		kept := 0
		for i := 0; i < n; i++ {
			c := p[i]
			if isIllegalControl(c) {
				if f.onDrop != nil {
					f.onDrop(f.offset+int64(i), c)
				}
				continue
			}
			p[kept] = c
			kept++
		}
		f.offset += int64(n)
		if kept > 0 || err != nil || n == 0 {
			return kept, err
		}
	}
}

func isIllegalControl(c byte) bool {
	return c < 0x20 && c != '\t' && c != '\n' && c != '\r'
}
