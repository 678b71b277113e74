package handler

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
)

// maxMediaURLs bounds how many indexed media fields are read per message.
// The provider attaches at most 10 media items, so anything declared beyond
// that is noise and never drives the loop or the allocation.
const maxMediaURLs = 10

// extractMediaURLs reads the declared media count and then each indexed URL
// field in order. The declared count wins: indexes past it are ignored, and
// declared-but-missing fields are skipped rather than treated as an error.
func extractMediaURLs(form func(string) string) []string {
	count, err := strconv.Atoi(form("NumMedia"))
	if err != nil || count <= 0 {
		return nil
	}
	if count > maxMediaURLs {
		count = maxMediaURLs
	}

	urls := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if u := form(fmt.Sprintf("MediaUrl%d", i)); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return nil
	}
	return urls
}

// canonicalURL rebuilds the public URL the provider signed.
func canonicalURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// writeAck answers the webhook with the provider's acknowledgment document.
// An empty reply body yields the bare empty document; a configured auto
// reply is embedded as a message element.
func writeAck(w http.ResponseWriter, replyBody string) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if replyBody == "" {
		buf.WriteString("<Response></Response>")
	} else {
		buf.WriteString("<Response><Message>")
		_ = xml.EscapeText(&buf, []byte(replyBody))
		buf.WriteString("</Message></Response>")
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
