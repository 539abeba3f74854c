package wheel

// Row is one line of the option editing table.
type Row struct {
	Number       int    `json:"number"` // 1-based
	Index        int    `json:"index"`
	Color        string `json:"color"`
	Label        string `json:"label"`
	Weight       int    `json:"weight"`
	Percent      string `json:"percent"`
	CanDecrement bool   `json:"can_decrement"`
}

// ViewModel projects the option set onto table rows.
func ViewModel(set OptionSet) []Row {
	rows := make([]Row, len(set))
	for i, o := range set {
		rows[i] = Row{
			Number:       i + 1,
			Index:        i,
			Color:        ColorFor(i, len(set)).String(),
			Label:        o.Label,
			Weight:       o.Weight,
			Percent:      FormatPercent(set.Percent(i)),
			CanDecrement: o.Weight > 1,
		}
	}
	return rows
}
