package utils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/atmacsn/agriadmin/apperror"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/text/unicode/norm"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// OptionalObjectID parses an optional id; the empty string yields nil.
func OptionalObjectID(id string) (*bson.ObjectID, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	objID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return &objID, nil
}

// QueryID reads the ?id= parameter every single-resource endpoint uses.
func QueryID(c *gin.Context) (bson.ObjectID, error) {
	raw := strings.TrimSpace(c.Query("id"))
	if raw == "" {
		return bson.NilObjectID, apperror.BadRequest("id query parameter is required")
	}
	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		return bson.NilObjectID, apperror.BadRequest("invalid id")
	}
	return id, nil
}

func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}

	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, e := range bwe.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 11000 || ce.Code == 11001) {
		return true
	}

	return strings.Contains(err.Error(), "E11000 duplicate key error")
}

func GenerateSlug(name string) string {
	// Normalize accents
	t := norm.NFD.String(name)
	var b strings.Builder
	for _, r := range t {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	s := strings.ToLower(b.String())
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func ParseIntDefault(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func ParseBoolDefault(v string, def bool) bool {
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// SplitList splits a comma separated env value, dropping blanks.
func SplitList(v string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
