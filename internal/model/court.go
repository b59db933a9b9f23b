package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
)

// ==================== 状态常量 ====================

const (
	// 资产(上传对象)状态
	AssetStatusUploaded = "uploaded" // 已上传，尚未挂到任何球场
	AssetStatusAttached = "attached" // 已挂到已发布球场
)

// ==================== JSON 类型 ====================

// StringSlice 字符串切片（JSON 存储）
type StringSlice []string

// Value 值接收者：Court 以值类型持有该字段，指针接收者不满足 driver.Valuer
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, s)
}

// JSONMap JSON对象（map 存储）
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(map[string]interface{})
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, m)
}

// ==================== 数据库模型 ====================

// Court 已发布的球场
type Court struct {
	BaseModel
	OwnerID int64 `gorm:"index;not null;comment:场主用户ID"`

	// 幂等键：同一草稿会话重试发布不会产生重复记录
	SubmitKey string `gorm:"size:64;uniqueIndex;not null;comment:发布幂等键"`

	Name        string      `gorm:"size:140;not null;comment:球场名称"`
	Description string      `gorm:"type:text;comment:介绍"`
	Sport       string      `gorm:"size:32;comment:主运动项目"`
	Sports      StringSlice `gorm:"type:json;comment:支持的运动项目"`
	Type        string      `gorm:"size:16;default:private;comment:类型"`

	// 位置
	Address    string   `gorm:"size:255;comment:地址"`
	Number     string   `gorm:"size:32;comment:门牌号"`
	PostalCode string   `gorm:"size:16;comment:邮编(CEP)"`
	City       string   `gorm:"size:100;index;comment:城市"`
	State      string   `gorm:"size:2;comment:州"`
	Country    string   `gorm:"size:64;default:Brasil;comment:国家"`
	Latitude   *float64 `gorm:"comment:纬度"`
	Longitude  *float64 `gorm:"comment:经度"`

	// 配套与媒体
	Amenities  StringSlice `gorm:"type:json;comment:配套设施"`
	Images     StringSlice `gorm:"type:json;comment:图片URL"`
	CoverImage string      `gorm:"size:2048;comment:封面图URL"`

	// 结构
	Capacity      int `gorm:"default:1;comment:容纳人数"`
	CourtCount    int `gorm:"default:1;comment:场地数"`
	BenchCount    int `gorm:"comment:长椅数"`
	RestroomCount int `gorm:"comment:卫生间数"`

	// 定价
	PricePerHour        float64 `gorm:"comment:工作日时价"`
	WeekendPricePerHour float64 `gorm:"comment:周末时价"`

	// 细项（定价方案/折扣/安全披露等，整体存 JSON）
	Details JSONMap `gorm:"type:json;comment:扩展细项"`

	// 发布时的草稿快照原文，排查线上数据问题用
	RawDraft datatypes.JSON `gorm:"type:json;comment:草稿快照"`

	// 状态
	IsActive   bool `gorm:"default:true;index;comment:是否上架"`
	IsVerified bool `gorm:"default:false;comment:是否已核验"`
}

func (*Court) TableName() string {
	return "courts"
}

// UploadedAsset 已上传到对象存储的资产记录
// 发布流程把挂上球场的资产标记为 attached，孤儿资产由定时任务清理
type UploadedAsset struct {
	BaseModel
	OwnerID    int64  `gorm:"index;not null;comment:上传者ID"`
	StorageKey string `gorm:"size:512;uniqueIndex;not null;comment:存储对象Key"`
	PublicURL  string `gorm:"size:2048;comment:公开URL"`
	CourtID    *int64 `gorm:"index;comment:挂接的球场ID"`
	Status     string `gorm:"size:16;index;default:uploaded;comment:状态"`
}

func (*UploadedAsset) TableName() string {
	return "uploaded_assets"
}

// ==================== 辅助方法 ====================

// Validate 入库前校验（与客户端 courtService 的校验保持一致）
func (c *Court) Validate() error {
	if len(c.Name) < 3 {
		return errors.New("球场名称无效（至少 3 个字符）")
	}
	if c.Sport == "" {
		return errors.New("必须指定运动项目")
	}
	if c.SubmitKey == "" {
		return errors.New("缺少发布幂等键")
	}
	return nil
}
