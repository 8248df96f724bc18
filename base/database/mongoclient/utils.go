package mongoclient

import (
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
)

// MakeBsonM turns a struct of bson-tagged fields into an equality selector.
// Zero fields, omitempty fields left nil and unexported fields are dropped;
// pointers are dereferenced.
func MakeBsonM(selector interface{}) (bson.M, error) {
	val := reflect.Indirect(reflect.ValueOf(selector))
	typ := val.Type()

	m := bson.M{}
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanInterface() || field.IsZero() {
			continue
		}
		tag, err := bsoncodec.DefaultStructTagParser(typ.Field(i))
		if err != nil {
			return nil, err
		}
		if tag.Skip {
			continue
		}
		if field.Kind() == reflect.Ptr {
			field = field.Elem()
		}
		m[tag.Name] = field.Interface()
	}
	return m, nil
}
