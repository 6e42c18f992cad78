package widget

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linanwx/shopchat/transcript"
)

const (
	cardWidth    = 34
	maxShelfSize = 3
	maxBodyRunes = 120
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1).
			Width(cardWidth)
	selectedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("6"))
	titleStyle     = lipgloss.NewStyle().Bold(true)
	priceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	listPriceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	pagerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// ProductPanel shows search results either as a shelf of cards (wide
// layouts) or a one-card carousel (narrow layouts). Both views are drawn
// from the same product list; only the presentation differs.
type ProductPanel struct {
	products []transcript.Product
	carousel transcript.Carousel

	width, height int
	wideWidth     int

	// OnView is called once per product when a new result list lands.
	OnView func(p transcript.Product, index int)
}

// NewProductPanel creates a product panel with the given wide-layout
// threshold.
func NewProductPanel(wideWidth int) *ProductPanel {
	return &ProductPanel{wideWidth: wideWidth}
}

// SetProducts replaces the result list. A changed list resets the carousel
// and reports each product through OnView.
func (p *ProductPanel) SetProducts(list []transcript.Product) {
	if sameProducts(p.products, list) {
		return
	}
	p.products = list
	p.carousel.Reset(len(list))
	if p.OnView != nil {
		for i, product := range list {
			p.OnView(product, i)
		}
	}
}

// Current returns the selected product, if any.
func (p *ProductPanel) Current() (transcript.Product, int, bool) {
	if len(p.products) == 0 {
		return transcript.Product{}, 0, false
	}
	idx := p.carousel.Index()
	return p.products[idx], idx, true
}

// Next moves the selection forward, wrapping at the end.
func (p *ProductPanel) Next() { p.carousel.Next() }

// Prev moves the selection backward, wrapping at the start.
func (p *ProductPanel) Prev() { p.carousel.Prev() }

func (p *ProductPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	return p, nil
}

func (p *ProductPanel) View() string {
	if len(p.products) == 0 {
		return ""
	}
	if p.width >= p.wideWidth {
		return p.shelfView()
	}
	return p.carouselView()
}

func (p *ProductPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// shelfView lays a window of cards side by side, keeping the selection in
// view.
func (p *ProductPanel) shelfView() string {
	size := min(maxShelfSize, len(p.products))
	start := p.carousel.Index()
	if start > len(p.products)-size {
		start = len(p.products) - size
	}

	var cards []string
	for i := start; i < start+size; i++ {
		cards = append(cards, p.card(p.products[i], i == p.carousel.Index()))
	}
	shelf := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	return shelf + "\n" + p.pager()
}

func (p *ProductPanel) carouselView() string {
	card := p.card(p.products[p.carousel.Index()], true)
	return card + "\n" + p.pager()
}

func (p *ProductPanel) pager() string {
	return pagerStyle.Render(fmt.Sprintf("‹ %d/%d ›", p.carousel.Index()+1, len(p.products)))
}

func (p *ProductPanel) card(product transcript.Product, selected bool) string {
	title, body := SplitDescription(product.Description)
	if title == "" {
		title = product.Name
	}
	body = truncate(body, maxBodyRunes)

	var lines []string
	lines = append(lines, titleStyle.Render(truncate(title, cardWidth-4)))
	if product.Brand != "" {
		lines = append(lines, product.Brand)
	}
	lines = append(lines, p.priceLine(product.Offer))
	if body != "" {
		lines = append(lines, body)
	}

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (p *ProductPanel) priceLine(offer transcript.Offer) string {
	price := priceStyle.Render(fmt.Sprintf("%s %.2f", offer.Currency, offer.Price))
	if offer.ListPrice > offer.Price && offer.Price > 0 {
		return price + " " + listPriceStyle.Render(fmt.Sprintf("%.2f", offer.ListPrice))
	}
	return price
}

func sameProducts(a, b []transcript.Product) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
