package libqnet

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/2x3systems/goqnet/goqnet"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// RecordFormat names a record file encoding.
type RecordFormat string

const (
	FormatJSON    RecordFormat = "json"
	FormatYAML    RecordFormat = "yaml"
	FormatMsgpack RecordFormat = "msgpack"
)

// FormatForPath infers a record encoding from a file extension.
func FormatForPath(pathname string) (RecordFormat, error) {
	switch strings.ToLower(filepath.Ext(pathname)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	}
	return "", errors.Wrapf(goqnet.ErrUnknownFormat, "%q", pathname)
}

// MarshalRecord encodes rec in the given format.
func MarshalRecord(rec *goqnet.Record, format RecordFormat) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(rec, "", "  ")
	case FormatYAML:
		return yaml.Marshal(rec)
	case FormatMsgpack:
		return msgpack.Marshal(rec)
	}
	return nil, errors.Wrapf(goqnet.ErrUnknownFormat, "%q", format)
}

// UnmarshalRecord decodes a record; a malformed buffer yields ErrCorruptRecord.
func UnmarshalRecord(buf []byte, format RecordFormat) (goqnet.Record, error) {
	var rec goqnet.Record
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(buf))
		dec.DisallowUnknownFields()
		err = dec.Decode(&rec)
	case FormatYAML:
		err = yaml.Unmarshal(buf, &rec)
	case FormatMsgpack:
		err = msgpack.Unmarshal(buf, &rec)
	default:
		return rec, errors.Wrapf(goqnet.ErrUnknownFormat, "%q", format)
	}
	if err != nil {
		return rec, errors.Wrap(goqnet.ErrCorruptRecord, err.Error())
	}
	return rec, nil
}

// WriteRecordFile writes rec to pathname, encoded per the file extension.
func WriteRecordFile(pathname string, rec *goqnet.Record) error {
	format, err := FormatForPath(pathname)
	if err != nil {
		return err
	}
	buf, err := MarshalRecord(rec, format)
	if err != nil {
		return err
	}
	return os.WriteFile(pathname, buf, 0o644)
}

// ReadRecordFile reads a record written by WriteRecordFile.
func ReadRecordFile(pathname string) (goqnet.Record, error) {
	format, err := FormatForPath(pathname)
	if err != nil {
		return goqnet.Record{}, err
	}
	buf, err := os.ReadFile(pathname)
	if err != nil {
		return goqnet.Record{}, err
	}
	rec, err := UnmarshalRecord(buf, format)
	if err != nil {
		return rec, errors.Wrapf(err, "%q", pathname)
	}
	return rec, nil
}
