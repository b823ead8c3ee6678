package rest

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

func (s *Server) Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := s.checkAuth(c)
		if err != nil {
			s.log.Debug("unauthorized request", zap.String("uri", c.Request.RequestURI), zap.Error(err))
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(ctxUserID, id)
		c.Next()
	}
}

func (s *Server) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info(
			"Request",
			zap.String("uri", c.Request.RequestURI),
			zap.Duration("duration", time.Since(start)),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Int("size", c.Writer.Size()),
		)
	}
}

// GzipDecompress unpacks request bodies sent with Content-Encoding: gzip.
func (s *Server) GzipDecompress() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Content-Encoding"), "gzip") {
			c.Next()
			return
		}

		gz, err := gzip.NewReader(c.Request.Body)
		if err != nil {
			s.log.Debug("failed open gzip body", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusBadRequest, tError{Error: "invalid gzip body"})
			return
		}
		c.Request.Body = &gzipBody{Reader: gz, orig: c.Request.Body}
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}

type gzipBody struct {
	*gzip.Reader
	orig io.ReadCloser
}

func (b *gzipBody) Close() error {
	if err := b.Reader.Close(); err != nil {
		_ = b.orig.Close()
		return err
	}
	return b.orig.Close()
}

var gzipWriters = sync.Pool{
	New: func() any {
		return gzip.NewWriter(io.Discard)
	},
}

type gzipWriter struct {
	gin.ResponseWriter
	writer  *gzip.Writer
	started bool
}

func (g *gzipWriter) Write(data []byte) (int, error) {
	if !g.started {
		g.started = true
		g.Header().Set("Content-Encoding", "gzip")
		g.Header().Add("Vary", "Accept-Encoding")
		g.Header().Del("Content-Length")
	}
	return g.writer.Write(data)
}

func (g *gzipWriter) WriteString(data string) (int, error) {
	return g.Write([]byte(data))
}

// GzipCompress compresses response bodies for clients that accept gzip.
func (s *Server) GzipCompress() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		gz, _ := gzipWriters.Get().(*gzip.Writer)
		gz.Reset(c.Writer)
		defer gzipWriters.Put(gz)

		w := &gzipWriter{ResponseWriter: c.Writer, writer: gz}
		c.Writer = w
		defer func() {
			if !w.started {
				return
			}
			if err := gz.Close(); err != nil {
				s.log.Error("failed close gzip writer", zap.Error(err))
			}
		}()
		c.Next()
	}
}
