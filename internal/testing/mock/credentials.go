// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mock

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"sync"
)

var (
	keyOnce sync.Once
	keyPEM  string
)

// PrivateKeyPEM returns a PKCS#8 RSA key in PEM form. The key is generated
// once per test binary.
func PrivateKeyPEM() string {
	keyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			panic(err)
		}
		keyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
	})
	return keyPEM
}

// ServiceAccount returns the fields of a Google service account key file.
func ServiceAccount(projectID, email string) map[string]any {
	return map[string]any{
		"type":           "service_account",
		"project_id":     projectID,
		"private_key_id": "0123456789abcdef",
		"private_key":    PrivateKeyPEM(),
		"client_email":   email,
		"client_id":      "100000000000000000000",
		"token_uri":      "https://oauth2.googleapis.com/token",
	}
}

// ServiceAccountJSON is ServiceAccount encoded as a key file.
func ServiceAccountJSON(projectID, email string) string {
	data, err := json.MarshalIndent(ServiceAccount(projectID, email), "", "  ")
	if err != nil {
		panic(err)
	}
	return string(data)
}
