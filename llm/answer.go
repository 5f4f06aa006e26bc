package llm

import (
	"fmt"
	"strings"

	"github.com/ryoungl/health-information-harmonizer/drugdb/entities"
)

// buildDrugContext renders the matched groups into the numbered text block
// the answer prompt grounds on. Groups arrive sorted by base name, so the
// same match set always yields the same prompt. Label texts are coalesced
// across a group's preparations: the first preparation carrying a non-empty
// value for a field supplies it.
func buildDrugContext(groups []entities.DrugGroup, lang string) string {
	if len(groups) == 0 {
		if lang == "en" {
			return "No drug information in local database."
		}
		return "未找到相关药物的本地数据库信息。"
	}

	blocks := make([]string, 0, len(groups))
	for i, g := range groups {
		aliases := strings.Join(g.Aliases, ", ")
		category := firstGroupField(&g, func(r *entities.DrugRecord) string { return r.Category })
		indications := firstGroupTexts(&g, func(r *entities.DrugRecord) []string { return r.Indications })
		contraindications := firstGroupTexts(&g, func(r *entities.DrugRecord) []string { return r.Contraindications })
		cautions := firstGroupTexts(&g, func(r *entities.DrugRecord) []string { return r.Cautions })
		warnings := firstGroupTexts(&g, func(r *entities.DrugRecord) []string { return r.ImportantWarnings })
		ageNote := firstGroupField(&g, func(r *entities.DrugRecord) string { return r.AgeNote })

		var block string
		if lang == "en" {
			block = fmt.Sprintf(`%d. Base name: %s
   Generic name: %s
   Aliases: %s
   Category: %s
   Indications: %s
   Contraindications: %s
   Cautions: %s
   Warnings: %s
   Age note: %s`,
				i+1, g.BaseName, g.GenericName, aliases, category,
				indications, contraindications, cautions, warnings, ageNote)
		} else {
			block = fmt.Sprintf(`%d. 药品名: %s
   通用名: %s
   别名: %s
   类别: %s
   适应证: %s
   禁忌: %s
   慎用: %s
   警示: %s
   年龄提示: %s`,
				i+1, g.BaseName, g.GenericName, aliases, category,
				indications, contraindications, cautions, warnings, ageNote)
		}

		blocks = append(blocks, block)
	}

	return strings.Join(blocks, "\n\n")
}

// firstGroupField returns the field value of the first preparation in the
// group that carries one.
func firstGroupField(g *entities.DrugGroup, field func(*entities.DrugRecord) string) string {
	for _, prep := range g.Preparations {
		if v := strings.TrimSpace(field(prep)); v != "" {
			return v
		}
	}
	return ""
}

// firstGroupTexts returns the joined label texts of the first preparation in
// the group whose field carries at least one non-blank entry.
func firstGroupTexts(g *entities.DrugGroup, field func(*entities.DrugRecord) []string) string {
	for _, prep := range g.Preparations {
		if v := joinLabelTexts(field(prep)); v != "" {
			return v
		}
	}
	return ""
}

// joinLabelTexts renders a label field as a single prompt line. Blank
// entries are dropped so a slice of empty strings reads as absent.
func joinLabelTexts(entries []string) string {
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		if t := strings.TrimSpace(entry); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "; ")
}
