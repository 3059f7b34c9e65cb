package application

import (
	"sort"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/space"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
)

// SelectSpace は確定先のスペースを1つ選ぶ
// 指定車種専用のスペースをハイブリッドより優先し、同順位は在庫順（ID順）
// ハイブリッドは専用スペースが足りない車種のために残しておく
func SelectSpace(vt vehicle.Type, spaces []*space.Space) *space.Space {
	ordered := make([]*space.Space, 0, len(spaces))
	for _, s := range spaces {
		if s != nil && s.Serves(vt) {
			ordered = append(ordered, s)
		}
	}
	if len(ordered) == 0 {
		return nil
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ServesOnly(vt) && !ordered[j].ServesOnly(vt)
	})
	return ordered[0]
}
