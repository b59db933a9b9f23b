package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-resty/resty/v2"
)

// ==================== 接口定义 ====================

// StorageProvider 对象存储提供者接口
// Upload 不允许覆盖：同 key 已存在时必须报错，由上层生成新 key
type StorageProvider interface {
	// Upload 上传对象并返回公开访问 URL
	Upload(ctx context.Context, key string, data []byte, contentType string) (url string, err error)

	// PublicURL 计算对象的公开 URL
	PublicURL(key string) string

	// Delete 删除对象
	Delete(ctx context.Context, key string) error
}

// ==================== 配置 ====================

type StorageConfig struct {
	Provider   string // "s3" | "supabase" | "local"
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string // Supabase 项目 URL 或 S3 自定义端点
	ServiceKey string // Supabase service role key
	CDNDomain  string // CDN 域名 (可选)
	BasePath   string // 本地存储根目录
}

// ==================== 工厂方法 ====================

func NewStorageProvider(cfg *StorageConfig) (StorageProvider, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3Storage(cfg)
	case "supabase":
		return NewSupabaseStorage(cfg)
	case "local":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("不支持的存储提供者: %s", cfg.Provider)
	}
}

// ==================== S3 实现 ====================

type S3Storage struct {
	client    *s3.Client
	bucket    string
	region    string
	cdnDomain string
}

func NewS3Storage(cfg *StorageConfig) (*S3Storage, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("加载AWS配置失败: %v", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		cdnDomain: cfg.CDNDomain,
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	// If-None-Match: * 保证同 key 不会被覆盖
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		return "", fmt.Errorf("上传S3失败: %v", err)
	}

	return s.PublicURL(key), nil
}

func (s *S3Storage) PublicURL(key string) string {
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// ==================== Supabase Storage 实现 ====================

// SupabaseStorage 通过 Supabase Storage REST API 上传
// 客户端 App 的存储后端就是它，桶默认公开读
type SupabaseStorage struct {
	client     *resty.Client
	projectURL string
	bucket     string
}

func NewSupabaseStorage(cfg *StorageConfig) (*SupabaseStorage, error) {
	if cfg.Endpoint == "" || cfg.ServiceKey == "" {
		return nil, fmt.Errorf("supabase 存储缺少 endpoint 或 service key")
	}

	client := resty.New().
		SetTimeout(30*time.Second).
		SetHeader("apikey", cfg.ServiceKey).
		SetHeader("Authorization", "Bearer "+cfg.ServiceKey)

	return &SupabaseStorage{
		client:     client,
		projectURL: strings.TrimRight(cfg.Endpoint, "/"),
		bucket:     cfg.Bucket,
	}, nil
}

func (s *SupabaseStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	// x-upsert: false => 同 key 已存在时返回 409，不覆盖
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "false").
		SetBody(data).
		Post(fmt.Sprintf("%s/storage/v1/object/%s/%s", s.projectURL, s.bucket, key))
	if err != nil {
		return "", fmt.Errorf("上传Supabase失败: %v", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("上传Supabase失败: HTTP %d: %s", resp.StatusCode(), resp.String())
	}

	return s.PublicURL(key), nil
}

func (s *SupabaseStorage) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.projectURL, s.bucket, key)
}

func (s *SupabaseStorage) Delete(ctx context.Context, key string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("%s/storage/v1/object/%s/%s", s.projectURL, s.bucket, key))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("删除Supabase对象失败: HTTP %d", resp.StatusCode())
	}
	return nil
}

// ==================== 本地存储 (开发测试用) ====================

type LocalStorage struct {
	basePath string
	baseURL  string
}

func NewLocalStorage(cfg *StorageConfig) (*LocalStorage, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "./uploads"
	}
	baseURL := cfg.Endpoint
	if baseURL == "" {
		baseURL = "http://localhost:8080/uploads"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("创建本地存储目录失败: %v", err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	path := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	// O_EXCL 保证不覆盖已有对象
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("写本地对象失败: %v", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return "", err
	}
	return s.PublicURL(key), nil
}

func (s *LocalStorage) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, key)
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	return os.Remove(filepath.Join(s.basePath, filepath.FromSlash(key)))
}
