package vectordb

import (
	"fmt"
	"time"

	"github.com/viant/bintly"
	"github.com/viant/sovereign/vectordb/meta"
)

// EncodeBinary encodes record to binary stream
func (r *Record) EncodeBinary(stream *bintly.Writer) error {
	stream.String(r.ID)
	stream.String(r.Content)
	stream.String(r.Model)
	stream.Time(r.CreatedAt)
	stream.Int(len(r.Embedding))
	for _, v := range r.Embedding {
		stream.Float32(v)
	}
	return encodeMeta(stream, r.Meta)
}

// DecodeBinary decodes record from binary stream
func (r *Record) DecodeBinary(stream *bintly.Reader) error {
	stream.String(&r.ID)
	stream.String(&r.Content)
	stream.String(&r.Model)
	stream.Time(&r.CreatedAt)
	var size int
	stream.Int(&size)
	if size < 0 {
		return fmt.Errorf("vectordb: invalid embedding size %d", size)
	}
	r.Embedding = make([]float32, size)
	for i := 0; i < size; i++ {
		stream.Float32(&r.Embedding[i])
	}
	var err error
	r.Meta, err = decodeMeta(stream)
	return err
}

func encodeMeta(stream *bintly.Writer, values map[string]interface{}) error {
	intKeys := make([]string, 0, len(values))
	float32Keys := make([]string, 0, len(values))
	float64Keys := make([]string, 0, len(values))
	stringKeys := make([]string, 0, len(values))
	timeKeys := make([]string, 0, len(values))
	for k, v := range values {
		switch v.(type) {
		case int:
			intKeys = append(intKeys, k)
		case float32:
			float32Keys = append(float32Keys, k)
		case float64:
			float64Keys = append(float64Keys, k)
		case string:
			stringKeys = append(stringKeys, k)
		case time.Time:
			timeKeys = append(timeKeys, k)
		default:
			return fmt.Errorf("vectordb: unsupported metadata type %T for %q", v, k)
		}
	}

	stream.Int16(int16(len(intKeys)))
	for _, k := range intKeys {
		stream.String(k)
		stream.Int(values[k].(int))
	}
	stream.Int16(int16(len(float32Keys)))
	for _, k := range float32Keys {
		stream.String(k)
		stream.Float32(values[k].(float32))
	}
	stream.Int16(int16(len(float64Keys)))
	for _, k := range float64Keys {
		stream.String(k)
		stream.Float64(values[k].(float64))
	}
	stream.Int16(int16(len(stringKeys)))
	for _, k := range stringKeys {
		stream.String(k)
		stream.String(values[k].(string))
	}
	stream.Int16(int16(len(timeKeys)))
	for _, k := range timeKeys {
		stream.String(k)
		stream.Time(values[k].(time.Time))
	}
	return nil
}

func decodeMeta(stream *bintly.Reader) (map[string]interface{}, error) {
	values := make(map[string]interface{})
	var size int16
	stream.Int16(&size)
	for i := 0; i < int(size); i++ {
		var key string
		stream.String(&key)
		var value int
		stream.Int(&value)
		values[key] = value
	}
	stream.Int16(&size)
	for i := 0; i < int(size); i++ {
		var key string
		stream.String(&key)
		var value float32
		stream.Float32(&value)
		values[key] = value
	}
	stream.Int16(&size)
	for i := 0; i < int(size); i++ {
		var key string
		stream.String(&key)
		var value float64
		stream.Float64(&value)
		values[key] = value
	}
	stream.Int16(&size)
	for i := 0; i < int(size); i++ {
		var key string
		stream.String(&key)
		var value string
		stream.String(&value)
		values[key] = value
	}
	stream.Int16(&size)
	for i := 0; i < int(size); i++ {
		var key string
		stream.String(&key)
		var value time.Time
		stream.Time(&value)
		values[key] = value
	}
	return values, nil
}

// EncodeRecords writes a length-prefixed record list.
func EncodeRecords(records []*Record) ([]byte, error) {
	writers := bintly.NewWriters()
	writer := writers.Get()
	defer writers.Put(writer)
	writer.Int(len(records))
	for _, record := range records {
		if err := record.EncodeBinary(writer); err != nil {
			return nil, err
		}
	}
	data := writer.Bytes()
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// DecodeRecords reads a list written by EncodeRecords.
func DecodeRecords(data []byte) ([]*Record, error) {
	if len(data) == 0 {
		return nil, nil
	}
	readers := bintly.NewReaders()
	reader := readers.Get()
	defer readers.Put(reader)
	if err := reader.FromBytes(data); err != nil {
		return nil, fmt.Errorf("vectordb: decode records: %w", err)
	}
	var count int
	reader.Int(&count)
	if count < 0 {
		return nil, fmt.Errorf("vectordb: invalid record count %d", count)
	}
	records := make([]*Record, 0, count)
	for i := 0; i < count; i++ {
		record := &Record{}
		if err := record.DecodeBinary(reader); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func sourceOf(record *Record) string {
	return meta.GetString(record.Meta, meta.SourceKey)
}
