package services

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"stayfinder-backend/config"
)

// UploadSignature lets the browser upload straight to the image CDN without
// the API secret ever leaving the server.
type UploadSignature struct {
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
	APIKey    string `json:"apiKey"`
	CloudName string `json:"cloudName"`
	Folder    string `json:"folder"`
}

type UploadService struct {
	config *config.Config
}

func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{config: cfg}
}

// Sign produces a Cloudinary-style signature: SHA-1 over the sorted
// key=value params joined by "&", with the API secret appended.
func (s *UploadService) Sign(folder string) UploadSignature {
	if folder == "" {
		folder = "posts"
	}
	ts := time.Now().Unix()

	params := map[string]string{
		"timestamp": fmt.Sprintf("%d", ts),
		"folder":    folder,
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	payload := strings.Join(pairs, "&") + s.config.CloudinarySecret

	sum := sha1.Sum([]byte(payload))
	return UploadSignature{
		Timestamp: ts,
		Signature: hex.EncodeToString(sum[:]),
		APIKey:    s.config.CloudinaryKey,
		CloudName: s.config.CloudinaryCloud,
		Folder:    folder,
	}
}
