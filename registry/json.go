// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// IterCodec is the default document.JSONCodec, backed by json-iterator's
// ConfigCompatibleWithStandardLibrary so numbers decode the way
// encoding/json would (float64), keeping document.Number's int64-then-
// float64 parse meaningful for values that came back out of a payload.
type IterCodec struct {
	api jsoniter.API
}

// NewIterCodec constructs the default codec.
func NewIterCodec() *IterCodec {
	return &IterCodec{api: jsoniter.ConfigCompatibleWithStandardLibrary}
}

// Decode implements document.JSONCodec.
func (c *IterCodec) Decode(text string) (any, error) {
	var v any
	if err := c.api.UnmarshalFromString(text, &v); err != nil {
		return nil, errors.Wrapf(err, "decoding %q as JSON", text)
	}
	return v, nil
}

// Marshal is a convenience for the reverse direction - encoding a document
// back out as wire JSON. The pack decoder and the API layer use their own
// JSON encoders, not this method.
func (c *IterCodec) Marshal(v any) ([]byte, error) {
	return c.api.Marshal(v)
}
