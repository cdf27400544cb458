package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"vidtube-go/internal/api/middleware"
	"vidtube-go/internal/api/response"
	"vidtube-go/internal/config"
	"vidtube-go/pkg/errcode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Uploader 把 multipart 文件落到本地临时目录，服务层上传完成后负责删除
type Uploader struct {
	tempDir       string
	maxVideoBytes int64
	maxImageBytes int64
}

func NewUploader(cfg config.UploadConfig) *Uploader {
	dir := cfg.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	return &Uploader{
		tempDir:       dir,
		maxVideoBytes: cfg.MaxVideoSizeMB << 20,
		maxImageBytes: cfg.MaxImageSizeMB << 20,
	}
}

// SaveVideo 字段缺失时返回空路径
func (u *Uploader) SaveVideo(c *gin.Context, field string) (string, error) {
	return u.save(c, field, u.maxVideoBytes)
}

// SaveImage 字段缺失时返回空路径
func (u *Uploader) SaveImage(c *gin.Context, field string) (string, error) {
	return u.save(c, field, u.maxImageBytes)
}

func (u *Uploader) save(c *gin.Context, field string, maxBytes int64) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", errcode.BadRequest("无效的上传文件").WithDetails(field + ": " + err.Error())
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return "", errcode.BadRequest("上传文件过大").
			WithDetails(fmt.Sprintf("%s exceeds %d MB", field, maxBytes>>20))
	}

	if err := os.MkdirAll(u.tempDir, 0o755); err != nil {
		return "", errcode.Internal(err)
	}
	dst := filepath.Join(u.tempDir, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", errcode.Internal(err)
	}
	return dst, nil
}

// discard 请求提前失败时删除已落盘的文件
func discard(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}

// pathID 解析路径中的正整数 ID，失败时直接写 400
func pathID(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "无效的"+label+"ID")
		return 0, false
	}
	return id, true
}

// currentUserID 未登录时为 0
func currentUserID(c *gin.Context) int64 {
	id, _ := middleware.GetCurrentUserID(c)
	return id
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "请求参数无效", err.Error())
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.BadRequest(c, "查询参数无效", err.Error())
		return false
	}
	return true
}
