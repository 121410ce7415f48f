package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"kanbanstudio/internal/kanban/models"
	"kanbanstudio/internal/logs"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const (
	defaultKey    = "board.json"
	s3OpTimeout   = 10 * time.Second
	defaultRegion = "us-east-1"
)

// S3Config describes an S3-compatible bucket holding the board snapshot
type S3Config struct {
	Endpoint        string
	Bucket          string
	Key             string
	Region          string
	AccessKey       string
	SecretKey       string
	UsePathStyle    bool
	DisableChecksum bool
}

// S3Store keeps the board as a JSON object in a bucket.
// It works with MinIO and other S3-compatible services.
type S3Store struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Store builds an S3 client from cfg
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("S3 bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.DisableChecksum {
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}
	})

	key := cfg.Key
	if key == "" {
		key = defaultKey
	}

	return &S3Store{client: client, bucket: cfg.Bucket, key: key}, nil
}

func (s *S3Store) Load(ctx context.Context) (models.Board, error) {
	ctx, cancel := context.WithTimeout(ctx, s3OpTimeout)
	defer cancel()

	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound") {
			logs.Logger.Printf("%s not found in bucket %s", s.key, s.bucket)
			return models.Board{}, ErrNoBoard
		}
		return models.Board{}, fmt.Errorf("error loading board from S3: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Board{}, fmt.Errorf("error reading board data: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Board{}, fmt.Errorf("error decoding board json: %w", err)
	}
	return snap.board(), nil
}

func (s *S3Store) Save(ctx context.Context, board models.Board) error {
	ctx, cancel := context.WithTimeout(ctx, s3OpTimeout)
	defer cancel()

	data, err := json.Marshal(newSnapshot(board))
	if err != nil {
		return fmt.Errorf("error encoding board json: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("error saving board to S3: %w", err)
	}
	return nil
}

type snapshotColumn struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	CardIDs []string `json:"cardIds"`
}

type snapshotCard struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Details string `json:"details"`
}

type snapshot struct {
	ID      string                  `json:"id"`
	Title   string                  `json:"title"`
	Columns []snapshotColumn        `json:"columns"`
	Cards   map[string]snapshotCard `json:"cards"`
}

func newSnapshot(b models.Board) snapshot {
	snap := snapshot{
		ID:      b.ID,
		Title:   b.Title,
		Columns: make([]snapshotColumn, 0, len(b.Columns)),
		Cards:   make(map[string]snapshotCard, len(b.Cards)),
	}
	for _, col := range b.Columns {
		ids := col.CardIDs
		if ids == nil {
			ids = []string{}
		}
		snap.Columns = append(snap.Columns, snapshotColumn{ID: col.ID, Title: col.Title, CardIDs: ids})
	}
	for id, card := range b.Cards {
		snap.Cards[id] = snapshotCard(card)
	}
	return snap
}

func (snap snapshot) board() models.Board {
	b := models.Board{
		ID:      snap.ID,
		Title:   snap.Title,
		Columns: make([]models.Column, 0, len(snap.Columns)),
		Cards:   make(map[string]models.Card, len(snap.Cards)),
	}
	for _, col := range snap.Columns {
		ids := col.CardIDs
		if ids == nil {
			ids = []string{}
		}
		b.Columns = append(b.Columns, models.Column{ID: col.ID, Title: col.Title, CardIDs: ids})
	}
	for id, card := range snap.Cards {
		b.Cards[id] = models.Card(card)
	}
	return b
}
