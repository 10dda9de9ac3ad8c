package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// Product is one entry of the curated catalog. Products are immutable
// after load; the URL doubles as the identity used for cart dedup.
type Product struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	URL         string  `json:"url"`
	ImageURL    string  `json:"image_url"`
	Rating      float64 `json:"rating"`
	Reviews     int     `json:"reviews"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory,omitempty"`
}

//go:embed products.json
var embeddedProducts []byte

type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Load returns the product catalog. When CATALOG_BUCKET/CATALOG_KEY are
// set the object is fetched from S3 so the catalog can be updated
// without redeploying; any failure falls back to the embedded set.
func Load(ctx context.Context, s3c ObjectGetter, logger *zap.Logger) []Product {
	bucket := strings.TrimSpace(os.Getenv("CATALOG_BUCKET"))
	key := strings.TrimSpace(os.Getenv("CATALOG_KEY"))

	if bucket != "" && key != "" && s3c != nil {
		if products, err := loadFromS3(ctx, s3c, bucket, key); err == nil {
			logger.Info("catalog loaded from s3",
				zap.String("bucket", bucket),
				zap.String("key", key),
				zap.Int("products", len(products)))
			return products
		} else {
			logger.Warn("catalog s3 load failed, using embedded set", zap.Error(err))
		}
	}

	products, err := parse(embeddedProducts)
	if err != nil {
		// The embedded file is validated by tests; an empty catalog
		// still yields valid empty search results.
		logger.Error("embedded catalog parse failed", zap.Error(err))
		return nil
	}
	return products
}

func loadFromS3(ctx context.Context, s3c ObjectGetter, bucket, key string) ([]Product, error) {
	out, err := s3c.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("catalog GetObject: %w", err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog read body: %w", err)
	}
	return parse(b)
}

func parse(b []byte) ([]Product, error) {
	var products []Product
	if err := json.Unmarshal(b, &products); err != nil {
		return nil, fmt.Errorf("catalog unmarshal: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return products, nil
}
