// Package authpb описывает gRPC-контракт сервиса авторизации Jam: сообщения,
// описание сервиса и соответствие доменных ошибок кодам gRPC.
//
// Сообщения передаются в JSON: кодек регистрируется при импорте пакета,
// клиент выбирает его через grpc.CallContentSubtype(CodecName).
package authpb

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName - content-subtype JSON-кодека.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}
