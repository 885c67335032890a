// Package dto holds the request bodies accepted by the API.
package dto

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonName)
	}
}

// jsonName makes validation errors report fields the way clients send them.
func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// Decode copies a body into a model through their shared bson field names.
func Decode(src any, dst any) error {
	data, err := bson.Marshal(src)
	if err != nil {
		return err
	}
	return bson.Unmarshal(data, dst)
}

// SetFields turns a partially filled body into a $set document. Fields left
// at their zero value are not part of it.
func SetFields(src any) (bson.M, error) {
	out := bson.M{}
	if err := Decode(src, &out); err != nil {
		return nil, err
	}
	return out, nil
}
