// Package browser is a read-only terminal viewer over an assembled
// program: one page per control section, each showing its symbol table
// alongside its object record listing. It never touches the object program
// it displays.
package browser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/sicxe-toolchain/sicxe-asm/sicxe"
)

// Browser wraps the tview application and the section results it renders.
type Browser struct {
	App      *tview.Application
	Pages    *tview.Pages
	sections []sicxe.SectionResult
	current  int
	status   *tview.TextView
}

func New(sections []sicxe.SectionResult) *Browser {
	b := &Browser{
		App:      tview.NewApplication(),
		Pages:    tview.NewPages(),
		sections: sections,
	}
	b.build()
	return b
}

func (b *Browser) build() {
	for i, s := range b.sections {
		b.Pages.AddPage(pageName(i), b.sectionView(s), true, i == 0)
	}

	b.status = tview.NewTextView().SetDynamicColors(true)
	b.status.SetBorder(true).SetTitle(" controls ")
	b.setStatus()

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(b.Pages, 0, 1, true).
		AddItem(b.status, 3, 0, false)

	b.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'n':
			b.next()
			return nil
		case 'p':
			b.prev()
			return nil
		case 'q':
			b.App.Stop()
			return nil
		}
		return event
	})

	b.App.SetRoot(layout, true)
}

func (b *Browser) sectionView(s sicxe.SectionResult) tview.Primitive {
	symbols := tview.NewTextView().SetDynamicColors(true)
	symbols.SetBorder(true).SetTitle(" symbols ")
	symbols.SetText(renderSymbols(s))

	records := tview.NewTextView().SetDynamicColors(true)
	records.SetBorder(true).SetTitle(" object program ")
	records.SetText(s.Object)

	return tview.NewFlex().
		AddItem(symbols, 0, 1, false).
		AddItem(records, 0, 1, false)
}

func (b *Browser) setStatus() {
	name := "main"
	if b.current > 0 {
		name = fmt.Sprintf("section %d", b.current)
	}
	b.status.SetText(fmt.Sprintf("[yellow]%s[-]  n: next section   p: previous section   q: quit", name))
}

func (b *Browser) next() {
	if len(b.sections) == 0 {
		return
	}
	b.current = (b.current + 1) % len(b.sections)
	b.Pages.SwitchToPage(pageName(b.current))
	b.setStatus()
}

func (b *Browser) prev() {
	if len(b.sections) == 0 {
		return
	}
	b.current = (b.current - 1 + len(b.sections)) % len(b.sections)
	b.Pages.SwitchToPage(pageName(b.current))
	b.setStatus()
}

// Run starts the terminal UI event loop.
func (b *Browser) Run() error {
	return b.App.Run()
}

func pageName(i int) string { return fmt.Sprintf("section-%d", i) }

func renderSymbols(s sicxe.SectionResult) string {
	names := make([]string, 0, len(s.Resolved.Symbols))
	for name := range s.Resolved.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "%-10s %06X\n", name, s.Resolved.Symbols[name])
	}
	return sb.String()
}
