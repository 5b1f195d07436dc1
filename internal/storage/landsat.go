package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/anushST/landset-nasa/internal/domain"
)

// DefaultBucket is the public USGS Landsat Collection 2 archive.
// The bucket is requester-pays, so all requests are signed.
const DefaultBucket = "usgs-landsat"

// assetSuffixes lists the Level-2 product files exposed per scene.
var assetSuffixes = []string{
	"QA_PIXEL",
	"QA_RADSAT",
	"SR_B1",
	"SR_B2",
	"SR_B3",
	"SR_B4",
	"SR_B5",
	"SR_B6",
	"SR_B7",
	"SR_QA_AEROSOL",
	"ST_ATRAN",
	"ST_B10",
	"ST_CDIST",
	"ST_DRAD",
	"ST_EMIS",
	"ST_EMSD",
	"ST_QA",
	"ST_TRAD",
	"ST_URAD",
}

// LandsatStoreConfig holds configuration for LandsatStore
type LandsatStoreConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UsePathStyle    bool
}

// LandsatStore resolves scene product ids to Cloud Optimized GeoTIFF
// objects in the USGS Landsat archive and signs download URLs for them.
type LandsatStore struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	downloadURLExpiry time.Duration
}

// NewLandsatStore creates a new LandsatStore with the given configuration
func NewLandsatStore(ctx context.Context, cfg LandsatStoreConfig) (*LandsatStore, error) {
	// Custom resolver so tests can point at an S3-compatible endpoint
	customResolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if cfg.Endpoint != "" {
				return aws.Endpoint{
					URL:               cfg.Endpoint,
					HostnameImmutable: true,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		},
	)

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		config.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = DefaultBucket
	}

	return &LandsatStore{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            bucket,
		downloadURLExpiry: 1 * time.Hour,
	}, nil
}

// SceneAsset is one downloadable file belonging to a scene.
type SceneAsset struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	URL  string `json:"url"`
}

// ScenePrefix returns the object key prefix for a Level-2 product, laid
// out as collection02/level-2/standard/oli-tirs/{year}/{path}/{row}/{id}/.
func ScenePrefix(productID string) (string, error) {
	parts := strings.Split(productID, "_")
	if len(parts) != 7 {
		return "", domain.ErrInvalidProductID
	}
	pathRow := parts[2]
	if len(pathRow) != 6 {
		return "", domain.ErrInvalidProductID
	}
	acquired := parts[3]
	if len(acquired) != 8 {
		return "", domain.ErrInvalidProductID
	}

	path := pathRow[:3]
	row := pathRow[3:]
	year := acquired[:4]

	return fmt.Sprintf("collection02/level-2/standard/oli-tirs/%s/%s/%s/%s/",
		year, path, row, productID), nil
}

// SceneKeys returns the full object keys for every asset of a product.
func SceneKeys(productID string) ([]string, error) {
	prefix, err := ScenePrefix(productID)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(assetSuffixes))
	for _, suffix := range assetSuffixes {
		keys = append(keys, prefix+productID+"_"+suffix+".TIF")
	}
	return keys, nil
}

// SceneAssets generates presigned download URLs for every asset of a
// product. The archive bucket is requester-pays, so every request is
// signed with the requester payer header.
func (s *LandsatStore) SceneAssets(ctx context.Context, productID string) ([]SceneAsset, error) {
	prefix, err := ScenePrefix(productID)
	if err != nil {
		return nil, err
	}

	assets := make([]SceneAsset, 0, len(assetSuffixes))
	for _, suffix := range assetSuffixes {
		key := prefix + productID + "_" + suffix + ".TIF"

		input := &s3.GetObjectInput{
			Bucket:       aws.String(s.bucket),
			Key:          aws.String(key),
			RequestPayer: types.RequestPayerRequester,
		}

		presignedReq, err := s.presignClient.PresignGetObject(ctx, input, func(opts *s3.PresignOptions) {
			opts.Expires = s.downloadURLExpiry
		})
		if err != nil {
			return nil, fmt.Errorf("failed to generate download URL for %s: %w", suffix, err)
		}

		assets = append(assets, SceneAsset{
			Name: suffix,
			Key:  key,
			URL:  presignedReq.URL,
		})
	}

	return assets, nil
}
