package httpapi

import "hojyokin-go/internal/prefecture"

// option pairs a form value with its label, mirroring the vocabulary the
// JGrants API accepts.
type option struct {
	Value string
	Label string
}

type indexData struct {
	TargetAreas    []string
	EmployeeCounts []string
	UsePurposes    []string
	SortFields     []option
	SortOrders     []option
}

var employeeCounts = []string{
	"従業員の制約なし",
	"5名以下",
	"20名以下",
	"50名以下",
	"100名以下",
	"300名以下",
	"900名以下",
	"901名以上",
}

var usePurposes = []string{
	"新たな事業を行いたい",
	"販路拡大・海外展開をしたい",
	"イベント・事業運営支援がほしい",
	"事業を引き継ぎたい",
	"研究開発・実証事業を行いたい",
	"人材育成を行いたい",
	"資金繰りを改善したい",
	"設備整備・IT導入をしたい",
	"雇用・職場環境を改善したい",
	"エコ・SDGs活動支援がほしい",
	"災害（自然災害、感染症等）支援がほしい",
	"教育・子育て・少子化への支援がほしい",
	"スポーツ・文化への支援がほしい",
	"安全・防災対策支援がほしい",
	"まちづくり・地域振興支援がほしい",
}

var sortFields = []option{
	{Value: "created_date", Label: "作成日"},
	{Value: "acceptance_start_datetime", Label: "募集開始日"},
	{Value: "acceptance_end_datetime", Label: "募集終了日"},
}

var sortOrders = []option{
	{Value: "DESC", Label: "降順"},
	{Value: "ASC", Label: "昇順"},
}

func newIndexData() indexData {
	areas := []string{"全国"}
	for _, p := range prefecture.All() {
		areas = append(areas, p.Name)
	}
	return indexData{
		TargetAreas:    areas,
		EmployeeCounts: employeeCounts,
		UsePurposes:    usePurposes,
		SortFields:     sortFields,
		SortOrders:     sortOrders,
	}
}
