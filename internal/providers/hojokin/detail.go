package hojokin

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"hojyokin-go/internal/model"
)

const fullDescriptionParagraphs = 3

var officialLinkWords = []string{"公式", "詳細", "申請"}

// parseDetails reads the labeled sections of a subsidy's own page. Every
// field is optional, later occurrences of a label win.
func parseDetails(doc *goquery.Document) model.SubsidyDetails {
	var d model.SubsidyDetails

	doc.Find("h2, h3, h4, dt, th").Each(func(_ int, header *goquery.Selection) {
		label := strings.TrimSpace(header.Text())
		value := strings.TrimSpace(header.Next().Text())
		if label == "" || value == "" {
			return
		}
		assignDetailField(&d, label, value)
	})

	d.FullDescription = findFullDescription(doc)
	d.OfficialURL = findOfficialURL(doc)
	return d
}

// assignDetailField routes a labeled value to its field. The more specific
// labels come first since 対象経費 and 補助対象 also contain 対象.
func assignDetailField(d *model.SubsidyDetails, label, value string) {
	switch {
	case strings.Contains(label, "補助率"):
		d.SubsidyRate = value
	case strings.Contains(label, "補助上限"), strings.Contains(label, "補助金額"):
		d.SubsidyLimit = value
	case strings.Contains(label, "対象経費"), strings.Contains(label, "補助対象"):
		d.EligibleExpenses = value
	case strings.Contains(label, "申請方法"):
		d.ApplicationMethod = value
	case strings.Contains(label, "問い合わせ"), strings.Contains(label, "連絡先"):
		d.Contact = value
	case strings.Contains(label, "概要"), strings.Contains(label, "目的"):
		d.Overview = value
	case strings.Contains(label, "対象者"), strings.Contains(label, "対象"):
		d.Target = value
	}
}

func findFullDescription(doc *goquery.Document) string {
	content := doc.Find("main").First()
	if content.Length() == 0 {
		content = doc.Find("article").First()
	}
	if content.Length() == 0 {
		content = doc.Find(`[class*="content"], [class*="detail"], [class*="main"]`).First()
	}
	if content.Length() == 0 {
		return ""
	}

	var paragraphs []string
	content.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if utf8.RuneCountInString(text) > cardMinTextRunes {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < fullDescriptionParagraphs
	})
	return strings.Join(paragraphs, "\n")
}

// findOfficialURL picks the first outbound link that looks like it leads to
// the grant's own site rather than back into the portal.
func findOfficialURL(doc *goquery.Document) string {
	official := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if !strings.HasPrefix(href, "http") || strings.Contains(href, "hojyokin-portal") {
			return true
		}
		text := a.Text()
		for _, word := range officialLinkWords {
			if strings.Contains(text, word) {
				official = href
				return false
			}
		}
		return true
	})
	return official
}
