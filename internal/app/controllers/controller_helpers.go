// Package controllers handles HTTP request handling
package controllers

import (
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/middleware"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

// idParam parses a positive path id or writes a 400 and reports false
func idParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := helpers.ParseIDParam(ctx, name)
	if err != nil {
		middleware.HandleInvalidParam(ctx, name, err)
		return 0, false
	}
	return id, true
}

// boolQuery reads an optional boolean query flag; anything unparsable is false
func boolQuery(ctx *gin.Context, name string) bool {
	v, err := strconv.ParseBool(ctx.Query(name))
	return err == nil && v
}

// formFiles returns the uploads under key, or nil for non-multipart requests
func formFiles(ctx *gin.Context, key string) []*multipart.FileHeader {
	form, err := ctx.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[key]
}
