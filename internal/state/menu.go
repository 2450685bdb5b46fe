package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/shulck/Band-Sync3-sub001/internal/atomicfile"
	"github.com/shulck/Band-Sync3-sub001/internal/schedule"
)

type MenuData struct {
	StatusLine string
	Next       *schedule.Occurrence
	Items      []schedule.Occurrence
	Conflicts  int
	Now        time.Time
}

// WriteMenu writes the GtkBuilder menu waybar shows for the module. Item
// ids map to commands: open_next and open_N run open-item, select_group
// runs select-group and refresh runs refresh.
func WriteMenu(path string, data MenuData) error {
	now := data.Now
	if now.IsZero() {
		now = time.Now()
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	menu := doc.CreateElement("interface").CreateElement("object")
	menu.CreateAttr("class", "GtkMenu")
	menu.CreateAttr("id", "menu")

	if data.Next != nil {
		addMenuItem(menu, "open_next", "Next: "+itemLabel(*data.Next, now))
		addSeparator(menu, "separator_next")
	}

	if len(data.Items) > 0 {
		for idx, item := range data.Items {
			addMenuItem(menu, fmt.Sprintf("open_%d", idx+1), itemLabel(item, now))
		}
	} else {
		addMenuItem(menu, "noop", fallback(data.StatusLine, "No upcoming events"))
	}

	if data.Conflicts > 0 {
		addSeparator(menu, "separator_conflicts")
		addMenuItem(menu, "conflicts", fmt.Sprintf("%d scheduling conflict(s)", data.Conflicts))
	}

	addSeparator(menu, "separator_actions")
	addMenuItem(menu, "select_group", "Select Band…")
	addMenuItem(menu, "refresh", "Refresh")

	doc.Indent(2)
	content, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("render menu: %w", err)
	}
	return atomicfile.Write(path, content)
}

func addMenuItem(menu *etree.Element, id, label string) {
	object := menu.CreateElement("child").CreateElement("object")
	object.CreateAttr("class", "GtkMenuItem")
	object.CreateAttr("id", id)
	property := object.CreateElement("property")
	property.CreateAttr("name", "label")
	property.SetText(label)
}

func addSeparator(menu *etree.Element, id string) {
	object := menu.CreateElement("child").CreateElement("object")
	object.CreateAttr("class", "GtkSeparatorMenuItem")
	object.CreateAttr("id", id)
}

func itemLabel(item schedule.Occurrence, now time.Time) string {
	label := fmt.Sprintf("%s · %s: %s", formatStart(item.Start, now), schedule.TypeLabel(item.Type), fallback(item.Title, schedule.TypeLabel(item.Type)))
	if item.Location != "" {
		label += " @ " + item.Location
	}
	return label
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func formatStart(value, now time.Time) string {
	local := value.In(now.Location())
	if now.Year() == local.Year() && now.YearDay() == local.YearDay() {
		return local.Format("15:04")
	}
	if local.Sub(now) < 6*24*time.Hour {
		return local.Format("Mon 15:04")
	}
	return local.Format("Mon Jan 2 15:04")
}
