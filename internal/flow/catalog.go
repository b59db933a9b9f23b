package flow

// ==================== 选项目录 ====================
// 与客户端向导的选项列表保持一致

// SportOptions 可选运动项目
var SportOptions = []string{
	"tennis", "futsal", "soccer", "basketball", "volleyball",
	"beach_tennis", "padel", "squash",
}

// AmenityOptions 可选配套设施
var AmenityOptions = []string{
	"lighting", "locker_room", "parking", "wifi", "bar",
	"bbq", "covered", "equipment_rental", "water_fountain",
}

// HighlightOptions 可选亮点标签
var HighlightOptions = []string{
	"night_games", "family_friendly", "pro_level", "newly_renovated",
	"ocean_view", "quiet_area",
}

// CondoAccessModes condo 子流程的准入方式
var CondoAccessModes = []string{"resident_only", "invite_code", "open"}

// MaxHighlights 亮点标签上限
const MaxHighlights = 2

// RecommendedMinPhotos 推荐的最少照片数（软性要求，不阻塞前进）
const RecommendedMinPhotos = 5

func inCatalog(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// ValidSport 运动项目是否在目录内
func ValidSport(v string) bool { return inCatalog(SportOptions, v) }

// ValidCondoAccessMode 准入方式是否在目录内
func ValidCondoAccessMode(v string) bool { return inCatalog(CondoAccessModes, v) }
