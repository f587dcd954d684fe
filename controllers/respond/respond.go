// Package respond renders service results and errors as API responses.
package respond

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"foodgram-backend/services/errs"
	"foodgram-backend/services/trackLog"
	"foodgram-backend/structs"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Error writes the status and body matching err and aborts the chain.
func Error(c *gin.Context, err error) {
	var validation *errs.ValidationError
	var fieldErrors validator.ValidationErrors
	var conflict *errs.Conflict
	var notFound *errs.NotFound

	switch {
	case errors.As(err, &validation):
		c.AbortWithStatusJSON(http.StatusBadRequest, validation.Fields)
	case errors.As(err, &fieldErrors):
		c.AbortWithStatusJSON(http.StatusBadRequest, translate(fieldErrors))
	case errors.As(err, &conflict):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": conflict.Detail})
	case errors.As(err, &notFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": notFound.Detail})
	case errors.Is(err, errs.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	case errors.Is(err, errs.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
	case errors.Is(err, errs.ErrAuth):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
	default:
		trackLog.WithFields(logrus.Fields{
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"error_message": err.Error(),
		}).Error("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
	}
}

// BindError reports a request body or query that could not be decoded.
func BindError(c *gin.Context, err error) {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		Error(c, err)
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error - " + err.Error()})
}

// ParamID reads a positive integer path parameter. Anything else is a 404.
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		Error(c, errs.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}

// Page writes the pagination envelope with absolute next and previous links.
func Page(c *gin.Context, results interface{}, count int, param structs.PageParam, defaultLimit int) {
	page, limit, offset := param.Normalize(defaultLimit)
	response := structs.PageResponse{Count: count, Results: results}
	if offset+limit < count {
		next := pageURL(c, page+1)
		response.Next = &next
	}
	if page > 1 {
		previous := pageURL(c, page-1)
		response.Previous = &previous
	}
	c.JSON(http.StatusOK, response)
}

func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	target := url.URL{Scheme: scheme, Host: c.Request.Host, Path: c.Request.URL.Path}
	query := c.Request.URL.Query()
	if page > 1 {
		query.Set("page", strconv.Itoa(page))
	} else {
		query.Del("page")
	}
	target.RawQuery = query.Encode()
	return target.String()
}
