package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"quadra_host_v1/internal/model"
	"quadra_host_v1/internal/repository"
	"quadra_host_v1/pkg/utils"
)

// ==================== 类型定义 ====================

// AssetFetcher 把客户端引用(URL 或 data URL)换成原始字节
// 抽出接口方便测试时注入假数据
type AssetFetcher func(ref string) ([]byte, error)

// UploadOutcome 单张图片的上传结果
// 失败的图片被跳过，但在结果里保留位置和原因
type UploadOutcome struct {
	LocalRef string // 客户端传来的原始引用
	URL      string // 上传成功后的公开 URL
	Skipped  bool
	Reason   string
}

// UploadService 图片上传管线: 拉取 -> 处理 -> 上传 -> 落记录
type UploadService struct {
	storage   StorageProvider
	processor *ImageProcessor
	assets    repository.AssetRepository
	fetch     AssetFetcher
}

func NewUploadService(storage StorageProvider, processor *ImageProcessor, assets repository.AssetRepository) *UploadService {
	return &UploadService{
		storage:   storage,
		processor: processor,
		assets:    assets,
		fetch:     utils.FetchImage,
	}
}

// ==================== 上传方法 ====================

// UploadAll 逐张顺序上传，单张失败只跳过不中断
// 返回结果与输入顺序一致
func (s *UploadService) UploadAll(ctx context.Context, ownerID int64, refs []string) []UploadOutcome {
	outcomes := make([]UploadOutcome, 0, len(refs))

	for _, ref := range refs {
		outcome := s.uploadOne(ctx, ownerID, ref)
		if outcome.Skipped {
			log.Printf("[Upload] 图片上传跳过 owner=%d ref=%s 原因=%s", ownerID, truncateRef(ref), outcome.Reason)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

func (s *UploadService) uploadOne(ctx context.Context, ownerID int64, ref string) UploadOutcome {
	data, err := s.fetch(ref)
	if err != nil {
		return UploadOutcome{LocalRef: ref, Skipped: true, Reason: fmt.Sprintf("拉取失败: %v", err)}
	}

	img, err := s.processor.Process(data)
	if err != nil {
		return UploadOutcome{LocalRef: ref, Skipped: true, Reason: fmt.Sprintf("处理失败: %v", err)}
	}

	key := s.objectKey(ownerID)
	url, err := s.storage.Upload(ctx, key, img.Data, img.ContentType)
	if err != nil {
		return UploadOutcome{LocalRef: ref, Skipped: true, Reason: fmt.Sprintf("上传失败: %v", err)}
	}

	// 记录资产，发布成功后挂到球场；写失败不影响上传结果
	if err := s.assets.Record(ctx, &model.UploadedAsset{
		OwnerID:    ownerID,
		StorageKey: key,
		PublicURL:  url,
		Status:     model.AssetStatusUploaded,
	}); err != nil {
		log.Printf("[Upload] 资产记录写入失败 key=%s: %v", key, err)
	}

	return UploadOutcome{LocalRef: ref, URL: url}
}

// objectKey 生成唯一对象 Key: {ownerID}/{毫秒时间戳}-{随机段}.webp
func (s *UploadService) objectKey(ownerID int64) string {
	return fmt.Sprintf("%d/%d-%s.webp", ownerID, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// SucceededURLs 提取成功上传的 URL，保持顺序
func SucceededURLs(outcomes []UploadOutcome) []string {
	urls := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Skipped {
			urls = append(urls, o.URL)
		}
	}
	return urls
}

func truncateRef(ref string) string {
	if len(ref) > 64 {
		return ref[:64] + "..."
	}
	return ref
}
