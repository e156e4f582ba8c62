package middleware

import (
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// brotliWriter compresses the body lazily so responses without one stay untouched.
type brotliWriter struct {
	gin.ResponseWriter
	level  int
	writer *brotli.Writer
}

func (w *brotliWriter) Write(p []byte) (int, error) {
	if w.writer == nil {
		header := w.ResponseWriter.Header()
		header.Set("Content-Encoding", "br")
		header.Add("Vary", "Accept-Encoding")
		header.Del("Content-Length")
		w.writer = brotli.NewWriterLevel(w.ResponseWriter, w.level)
	}
	return w.writer.Write(p)
}

func (w *brotliWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *brotliWriter) close() error {
	if w.writer == nil {
		return nil
	}
	return w.writer.Close()
}

// Brotli compresses responses for clients accepting "br". Event streams are sent as is.
func Brotli(level int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !acceptsBrotli(c.GetHeader("Accept-Encoding")) || isStream(c) {
			c.Next()
			return
		}

		w := &brotliWriter{ResponseWriter: c.Writer, level: level}
		c.Writer = w
		defer func() {
			_ = w.close()
		}()

		c.Next()
	}
}

func acceptsBrotli(header string) bool {
	for _, part := range strings.Split(header, ",") {
		encoding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.TrimSpace(encoding) != "br" {
			continue
		}
		return strings.ReplaceAll(strings.TrimSpace(params), " ", "") != "q=0"
	}
	return false
}

func isStream(c *gin.Context) bool {
	return strings.HasSuffix(c.FullPath(), "/stream") || strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}
