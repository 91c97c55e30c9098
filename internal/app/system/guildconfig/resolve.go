package guildconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/go-viper/mapstructure/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is the stored shape of a server_settings document. Section
// fields are normally JSON strings; a native sub-document is accepted too.
// Keys that match no field (older flat-key documents) land in Extra.
type Document struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	GuildID   string             `bson:"guildId"`
	Welcome   bson.RawValue      `bson:"welcomeSettings,omitempty"`
	Goodbye   bson.RawValue      `bson:"goodbyeSettings,omitempty"`
	AutoRole  bson.RawValue      `bson:"autoRoleSettings,omitempty"`
	Leveling  bson.RawValue      `bson:"levelingSettings,omitempty"`
	AutoMod   bson.RawValue      `bson:"autoModSettings,omitempty"`
	UpdatedAt *time.Time         `bson:"updatedAt,omitempty"`
	Extra     bson.M             `bson:",inline"`
}

func (doc Document) raw(key string) bson.RawValue {
	switch key {
	case models.SectionWelcome:
		return doc.Welcome
	case models.SectionGoodbye:
		return doc.Goodbye
	case models.SectionAutoRole:
		return doc.AutoRole
	case models.SectionLeveling:
		return doc.Leveling
	case models.SectionAutoMod:
		return doc.AutoMod
	}
	return bson.RawValue{}
}

// Resolve merges every stored section over its default. It never fails:
// a section that is absent or cannot be parsed resolves to the default.
func (d Defaults) Resolve(doc Document) models.GuildSettings {
	base := d.clone()
	s := models.GuildSettings{
		ID:        doc.ID,
		GuildID:   doc.GuildID,
		Welcome:   base.Welcome,
		Goodbye:   base.Goodbye,
		AutoRole:  base.AutoRole,
		Leveling:  base.Leveling,
		AutoMod:   base.AutoMod,
		UpdatedAt: doc.UpdatedAt,
	}
	for _, sec := range s.Sections() {
		src, ok := parseSection(doc.raw(sec.Key()))
		if !ok {
			src = legacySection(sec.Key(), doc.Extra)
		}
		overlay(sec, src)
		sec.Normalize()
	}
	return s
}

// Encode serializes one section the way it is stored.
func Encode(sec models.Section) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(sec); err != nil {
		return "", fmt.Errorf("encode %s: %w", sec.Key(), err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// EncodeAll serializes every section of s, keyed by its stored field name.
func EncodeAll(s *models.GuildSettings) (bson.M, error) {
	out := bson.M{}
	for _, sec := range s.Sections() {
		sec.Normalize()
		v, err := Encode(sec)
		if err != nil {
			return nil, err
		}
		out[sec.Key()] = v
	}
	return out, nil
}

// parseSection turns a stored section into a generic map. The bool is false
// when the section is absent or malformed.
func parseSection(v bson.RawValue) (map[string]any, bool) {
	switch v.Type {
	case bsontype.String:
		str, _ := v.StringValueOK()
		var m map[string]any
		if err := json.Unmarshal([]byte(str), &m); err != nil || m == nil {
			return nil, false
		}
		return m, true
	case bsontype.EmbeddedDocument:
		m, ok := rawToAny(v).(map[string]any)
		return m, ok
	}
	return nil, false
}

// rawToAny converts BSON into the same shapes encoding/json produces.
func rawToAny(v bson.RawValue) any {
	switch v.Type {
	case bsontype.EmbeddedDocument:
		doc, ok := v.DocumentOK()
		if !ok {
			return nil
		}
		elems, err := doc.Elements()
		if err != nil {
			return nil
		}
		m := make(map[string]any, len(elems))
		for _, e := range elems {
			m[e.Key()] = rawToAny(e.Value())
		}
		return m
	case bsontype.Array:
		arr, ok := v.ArrayOK()
		if !ok {
			return nil
		}
		vals, err := arr.Values()
		if err != nil {
			return nil
		}
		out := make([]any, 0, len(vals))
		for _, e := range vals {
			out = append(out, rawToAny(e))
		}
		return out
	case bsontype.String:
		s, _ := v.StringValueOK()
		return s
	case bsontype.Boolean:
		b, _ := v.BooleanOK()
		return b
	case bsontype.Int32:
		i, _ := v.Int32OK()
		return float64(i)
	case bsontype.Int64:
		i, _ := v.Int64OK()
		return float64(i)
	case bsontype.Double:
		f, _ := v.DoubleOK()
		return f
	}
	return nil
}

// legacyKeys maps flat first-generation keys onto section fields.
var legacyKeys = map[string]map[string]string{
	models.SectionWelcome: {
		"welcomeMessageEnabled": "enabled",
		"welcomeMessage":        "message",
		"welcomeChannelId":      "channelId",
	},
	models.SectionGoodbye: {
		"goodbyeMessageEnabled": "enabled",
		"goodbyeMessage":        "message",
		"goodbyeChannelId":      "channelId",
	},
	models.SectionAutoRole: {
		"autoRoleEnabled": "enabled",
		"autoRoleId":      "roleId",
	},
}

func legacySection(key string, extra bson.M) map[string]any {
	keys, ok := legacyKeys[key]
	if !ok || len(extra) == 0 {
		return nil
	}
	var m map[string]any
	for flat, field := range keys {
		v, ok := extra[flat]
		if !ok {
			continue
		}
		if m == nil {
			m = map[string]any{}
		}
		m[field] = v
	}
	return m
}

// overlay writes each recognised key of src onto the matching json-tagged
// field of sec. Values that cannot be coerced leave the field untouched.
func overlay(sec models.Section, src map[string]any) {
	if len(src) == 0 {
		return
	}
	rv := reflect.ValueOf(sec).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name := jsonName(f)
		if name == "" {
			continue
		}
		v, ok := src[name]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && f.Type.Kind() != reflect.String && strings.TrimSpace(s) == "" {
			continue
		}
		target := reflect.New(f.Type)
		if err := weakDecode(v, target.Interface()); err != nil {
			continue
		}
		rv.Field(i).Set(target.Elem())
	}
}

func weakDecode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func jsonName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}
