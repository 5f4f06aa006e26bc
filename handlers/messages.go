package handlers

import (
	"fmt"
	"strings"
)

// Fixed user-facing strings. Clients key on these; they must stay stable
// across releases.
const (
	disclaimerZH = "本回答仅整合公开健康信息作一般性参考，不替代医疗诊断或治疗。"
	disclaimerEN = "This answer harmonizes public health information for general reference only and does not replace professional diagnosis or treatment."

	noDrugsZH = "未识别到药物名称。"
	noDrugsEN = "No drug names recognized."

	answerUnavailableZH = "AI 解释暂不可用，以下药物信息来自本地数据库。"
	answerUnavailableEN = "AI explanation is temporarily unavailable; the drug information below comes from the local database."
)

func disclaimer(lang string) string {
	if lang == "zh" {
		return disclaimerZH
	}
	return disclaimerEN
}

func noDrugsMessage(lang string) string {
	if lang == "zh" {
		return noDrugsZH
	}
	return noDrugsEN
}

func answerUnavailableMessage(lang string) string {
	if lang == "zh" {
		return answerUnavailableZH
	}
	return answerUnavailableEN
}

// guardrailMessage is served when names were recognized but none resolve
// against the catalog. No model call happens on this path.
func guardrailMessage(lang string, names []string) string {
	list := strings.Join(names, ", ")
	if lang == "zh" {
		return fmt.Sprintf(
			"系统识别到您询问的药物名称：%s。\n\n"+
				"**安全提示**：该药物暂未收录于合规数据库中。AI 不会生成用药建议。\n\n"+
				"建议咨询医生或药剂师获取专业意见。", list)
	}
	return fmt.Sprintf(
		"System identified: %s.\n\n"+
			"**Safety Notice**: This drug is not in our verified database. AI will NOT generate medical advice.", list)
}

// unlistedNote is appended to a model answer when some recognized names
// resolved and others did not.
func unlistedNote(lang string, names []string) string {
	list := strings.Join(names, ", ")
	if lang == "zh" {
		return fmt.Sprintf("\n\n【额外提示】未收录：%s", list)
	}
	return fmt.Sprintf("\n\n[Note] Unlisted: %s", list)
}
