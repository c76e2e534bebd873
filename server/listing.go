package server

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/sagarc03/lanshare"
)

// encodeListing renders files as [{"id":..,"name":..,"size":..}].
// Only the double quote in names is escaped. Ids are written verbatim.
func encodeListing(files []lanshare.SharedFile) []byte {
	var b bytes.Buffer

	b.WriteByte('[')
	for i, f := range files {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{"id":"`)
		b.WriteString(f.ID)
		b.WriteString(`","name":"`)
		b.WriteString(strings.ReplaceAll(f.Name, `"`, `\"`))
		b.WriteString(`","size":`)
		b.WriteString(strconv.FormatInt(f.Size, 10))
		b.WriteByte('}')
	}
	b.WriteByte(']')

	return b.Bytes()
}
