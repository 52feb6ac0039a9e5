package hojokin

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"hojyokin-go/internal/model"
	"hojyokin-go/internal/prefecture"
)

// ErrNoListings means the page carried neither subsidy links nor the
// portal's result counter, so its structure is not one we know how to read.
var ErrNoListings = errors.New("no subsidy listings in page")

var (
	subsidyHrefRe = regexp.MustCompile(`/subsidies/(\d+)`)
	periodRe      = regexp.MustCompile(`(\d{4}年\d{1,2}月\d{1,2}日)?\s*[〜～]\s*(\d{4}年\d{1,2}月\d{1,2}日)?`)
	totalCountRe  = regexp.MustCompile(`(?s)該当する補助金.*?(\d{1,4})\s*件`)
	looseCountRe  = regexp.MustCompile(`(\d{1,4})\s*件`)
	pageParamRe   = regexp.MustCompile(`[?&]page=(\d+)`)
	tagRe         = regexp.MustCompile(`#[^#]+`)
)

const (
	cardClimbLimit   = 5
	cardMinTextRunes = 50
)

var cardContainers = map[string]bool{
	"article": true,
	"div":     true,
	"li":      true,
	"section": true,
}

var (
	descriptionExcludes = []string{"公募中", "公募終了", "申請期間", "上限金額"}
	prefectureNames     = prefecture.Names()
)

// parseListing extracts the subsidy cards, pagination state and reported
// total count from one listing page. Cards sharing a container or a URL
// collapse to a single record.
func parseListing(doc *goquery.Document, portal string, page int) (model.Listing, error) {
	listing := model.Listing{Page: page, Records: []model.Subsidy{}}
	text := doc.Text()

	links := subsidyLinks(doc)
	if len(links) == 0 {
		if totalCountRe.MatchString(text) {
			listing.TotalCount = reportedTotal(text)
			return listing, nil
		}
		return model.Listing{}, ErrNoListings
	}

	seenCards := map[*html.Node]bool{}
	seenURLs := map[string]bool{}
	for _, link := range links {
		card := cardFor(link)
		if card == nil || seenCards[card.Nodes[0]] {
			continue
		}
		seenCards[card.Nodes[0]] = true

		rec, ok := parseCard(card, portal)
		if !ok || seenURLs[rec.URL] {
			continue
		}
		seenURLs[rec.URL] = true
		listing.Records = append(listing.Records, rec)
	}

	listing.HasNext = hasNextPage(doc, page)
	listing.TotalCount = reportedTotal(text)
	return listing, nil
}

func subsidyLinks(doc *goquery.Document) []*goquery.Selection {
	var links []*goquery.Selection
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok && subsidyHrefRe.MatchString(href) {
			links = append(links, a)
		}
	})
	return links
}

// cardFor climbs from a subsidy link to the nearest container element with
// enough text to be a listing card. Links floating outside any such
// container yield no card.
func cardFor(link *goquery.Selection) *goquery.Selection {
	node := link
	for depth := 0; depth < cardClimbLimit; depth++ {
		node = node.Parent()
		if node.Length() == 0 {
			return nil
		}
		if cardContainers[goquery.NodeName(node)] &&
			utf8.RuneCountInString(strings.TrimSpace(node.Text())) > cardMinTextRunes {
			return node
		}
	}
	return nil
}

func parseCard(card *goquery.Selection, portal string) (model.Subsidy, bool) {
	href := cardLink(card)
	if href == "" {
		return model.Subsidy{}, false
	}
	if !strings.HasPrefix(href, "http") {
		href = portal + href
	}
	m := subsidyHrefRe.FindStringSubmatch(href)
	if m == nil {
		return model.Subsidy{}, false
	}

	text := cardText(textLines(card))
	rec := model.Subsidy{
		URL: href,
		ID:  m[1],
	}
	rec.Status = text.Status()
	rec.Title = text.Title()
	rec.Prefecture = text.Prefecture()
	rec.ApplicationPeriod, rec.StartDate, rec.EndDate = text.Period()
	rec.MaxAmount = text.Amount()
	rec.Description = text.Description()
	rec.Tags = text.Tags()
	return rec, true
}

func cardLink(card *goquery.Selection) string {
	var href string
	card.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		h, _ := a.Attr("href")
		if subsidyHrefRe.MatchString(h) {
			href = h
			return false
		}
		return true
	})
	return href
}

// cardText is the trimmed text lines of one listing card. Each extractor
// scans the lines for its field and returns the zero value when the card
// does not carry it, so a sparse card still yields a record.
type cardText []string

// textLines flattens a card into trimmed non-empty text lines, one per text
// node, the unit all field heuristics work on.
func textLines(sel *goquery.Selection) []string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			for _, part := range strings.Split(n.Data, "\n") {
				if line := strings.TrimSpace(part); line != "" {
					lines = append(lines, line)
				}
			}
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return lines
}

func (c cardText) Status() string {
	markers := []string{model.StatusOpen, model.StatusClosed, "公募 中", "公募 終了"}
	for _, line := range c {
		for _, marker := range markers {
			if line == marker {
				return strings.ReplaceAll(line, " ", "")
			}
		}
	}
	return ""
}

func (c cardText) Title() string {
	for _, line := range c {
		if !strings.Contains(line, "「") {
			continue
		}
		title := strings.ReplaceAll(line, model.StatusOpen, "")
		title = strings.ReplaceAll(title, model.StatusClosed, "")
		return strings.TrimSpace(title)
	}
	return ""
}

func (c cardText) Prefecture() string {
	for _, line := range c {
		if prefecture.IsName(line) {
			return line
		}
	}
	return ""
}

func (c cardText) Period() (period, start, end string) {
	for _, line := range c {
		if !strings.Contains(line, "申請期間") {
			continue
		}
		period = strings.TrimSpace(strings.ReplaceAll(line, "申請期間", ""))
		start, end = DecomposePeriod(line)
		return period, start, end
	}
	return "", "", ""
}

// DecomposePeriod splits a Japanese date range like
// 2025年4月1日〜2026年2月27日 into its start and end dates. Either side may
// be absent, and a string without the tilde separator yields neither.
func DecomposePeriod(s string) (start, end string) {
	m := periodRe.FindStringSubmatch(s)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

func (c cardText) Amount() string {
	for _, line := range c {
		if strings.Contains(line, "上限金額") {
			return strings.TrimSpace(strings.ReplaceAll(line, "上限金額", ""))
		}
	}
	return ""
}

func (c cardText) Description() string {
	for _, line := range c {
		if utf8.RuneCountInString(line) <= 20 ||
			strings.Contains(line, "：「") ||
			strings.HasPrefix(line, "#") {
			continue
		}
		if containsAny(line, descriptionExcludes) || containsPrefectureName(line) {
			continue
		}
		return line
	}
	return ""
}

func (c cardText) Tags() []string {
	tags := []string{}
	for _, line := range c {
		if !strings.HasPrefix(line, "#") {
			continue
		}
		for _, raw := range tagRe.FindAllString(line, -1) {
			if tag := strings.TrimSpace(raw); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func hasNextPage(doc *goquery.Document, current int) bool {
	next := false
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		m := pageParamRe.FindStringSubmatch(href)
		if m == nil {
			return true
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > current {
			next = true
			return false
		}
		return true
	})
	return next
}

func reportedTotal(text string) int {
	for _, re := range []*regexp.Regexp{totalCountRe, looseCountRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n
			}
		}
	}
	return 0
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func containsPrefectureName(s string) bool {
	for _, name := range prefectureNames {
		if strings.Contains(s, name) {
			return true
		}
	}
	return false
}
