package model

import (
	"database/sql/driver"
	"testing"
)

// Court 以值类型持有这两个字段，必须由值接收者满足 driver.Valuer，
// 否则入库时驱动拿不到 Valuer，整条 INSERT 失败
var (
	_ driver.Valuer = StringSlice{}
	_ driver.Valuer = JSONMap{}
)

func TestStringSlice_ValueRoundTrip(t *testing.T) {
	v, err := StringSlice{"tennis", "futsal"}.Value()
	if err != nil {
		t.Fatalf("Value 失败: %v", err)
	}

	var got StringSlice
	if err := got.Scan(v.([]byte)); err != nil {
		t.Fatalf("Scan 失败: %v", err)
	}
	if len(got) != 2 || got[0] != "tennis" || got[1] != "futsal" {
		t.Errorf("往返结果不正确: %v", got)
	}

	// nil 切片落库为空数组
	empty, err := StringSlice(nil).Value()
	if err != nil || empty != "[]" {
		t.Errorf("nil 切片应落为空数组: %v / %v", empty, err)
	}
}

func TestJSONMap_ValueRoundTrip(t *testing.T) {
	v, err := JSONMap{"access_code": "1234"}.Value()
	if err != nil {
		t.Fatalf("Value 失败: %v", err)
	}

	var got JSONMap
	if err := got.Scan(v.([]byte)); err != nil {
		t.Fatalf("Scan 失败: %v", err)
	}
	if got["access_code"] != "1234" {
		t.Errorf("往返结果不正确: %v", got)
	}

	empty, err := JSONMap(nil).Value()
	if err != nil || empty != "{}" {
		t.Errorf("nil map 应落为空对象: %v / %v", empty, err)
	}
}
