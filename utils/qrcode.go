package utils

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

// JoinURL builds the link printed on a table, e.g. https://host/join?table_id=T1
func JoinURL(base, tableID string) string {
	return fmt.Sprintf("%s/join?table_id=%s", strings.TrimRight(base, "/"), url.QueryEscape(tableID))
}

// TableQRCode renders the join link of a table as a PNG.
func TableQRCode(base, tableID string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(JoinURL(base, tableID), qrcode.Medium, size)
}
