package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seiflotfy/huffpack"
	"github.com/seiflotfy/huffpack/internal/service"
)

// CodecHandler serves the compress and decompress endpoints.
type CodecHandler struct {
	svc     *service.CodecService
	maxBody int64
}

// NewCodecHandler creates a handler that rejects bodies over maxBody bytes (0 = no limit).
func NewCodecHandler(s *service.CodecService, maxBody int64) *CodecHandler {
	return &CodecHandler{svc: s, maxBody: maxBody}
}

type compressReq struct {
	Text string `json:"text"`
}

type compressResp struct {
	Padding  int    `json:"padding"`
	Codebook string `json:"codebook"`
	Data     []byte `json:"data"`
	Symbols  int    `json:"symbols"`
	Bits     int    `json:"bits"`
	Bytes    int    `json:"bytes"`
}

type decompressReq struct {
	Codebook string `json:"codebook" binding:"required"`
	Data     []byte `json:"data"`
}

func (h *CodecHandler) Compress(c *gin.Context) {
	var req compressReq
	if !h.bind(c, &req) {
		return
	}
	res, err := h.svc.Compress(req.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, compressResp{
		Padding:  res.Archive.Padding,
		Codebook: res.Codebook,
		Data:     res.Archive.Data,
		Symbols:  res.Symbols,
		Bits:     res.Archive.BitLen(),
		Bytes:    len(res.Archive.Data),
	})
}

func (h *CodecHandler) Decompress(c *gin.Context) {
	var req decompressReq
	if !h.bind(c, &req) {
		return
	}
	text, err := h.svc.Decompress(req.Codebook, req.Data)
	if err != nil {
		if errors.Is(err, huffpack.ErrInvalidCodebook) || errors.Is(err, huffpack.ErrMalformedStream) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// bind decodes the JSON body into req, writing the error response itself
// when that fails.
func (h *CodecHandler) bind(c *gin.Context, req any) bool {
	if h.maxBody > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	}
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
