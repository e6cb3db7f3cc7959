// Package prompt 构造负面新闻筛查的提示词
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/iWorld-y/adverse_media/app/screener/pkg/model"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/textutil"
)

// DateLayout 提示词与结果中使用的日期格式
const DateLayout = time.DateOnly

// SystemPrompt 固定的系统角色
const SystemPrompt = `You are a senior compliance analyst specializing in adverse media screening, KYC and anti-money-laundering due diligence. You research entities thoroughly, cite your sources, and respond with valid JSON only.`

// maxEvidenceChars 单篇证据截断长度
const maxEvidenceChars = 1500

const template = `Conduct a comprehensive adverse media screening for the entity "%s".

Time window: %s.

Search scope - report any credible negative news or records concerning the entity, including:
- Regulatory actions, fines, enforcement proceedings or license revocations
- Litigation, criminal charges, indictments or convictions
- Fraud, embezzlement, misrepresentation or accounting irregularities
- Bribery and corruption
- Money laundering or terrorist financing
- Sanctions listings, sanctions evasion or export control violations
- Reputational issues such as scandals or major controversies
- ESG violations (environmental damage, labour or human rights abuses, governance failures)
- Financial distress such as insolvency, bankruptcy or defaults

Return a JSON object with exactly this structure:
{
  "findings": [
    {
      "title": "short headline of the adverse item",
      "description": "2-3 sentence summary of what happened and why it matters for compliance",
      "date": "YYYY-MM-DD date of the event or publication",
      "source": "name of the publication, regulator or court",
      "severity": "one of Critical, High, Medium, Low",
      "category": "one of Regulatory, Legal, Fraud, Corruption, MoneyLaundering, Sanctions, Reputational, ESG, FinancialDistress, Other"
    }
  ],
  "nextSteps": [
    {
      "action": "recommended compliance action",
      "priority": "one of Critical, High, Medium, Low",
      "description": "what the action involves",
      "timeline": "when it should be completed"
    }
  ],
  "overallRiskAssessment": {
    "level": "one of Critical, High, Medium, Low",
    "summary": "overall summary of the adverse media profile",
    "recommendation": "recommended onboarding or monitoring decision"
  }
}

If no adverse media is found, return an empty "findings" array and explain this in the overall risk assessment.
Return ONLY valid JSON, no markdown.`

// Build 根据实体名称和时间窗口生成提示词
// start 为零值时表示不设下限。相同输入输出完全一致
func Build(entityName string, start, end time.Time) string {
	return fmt.Sprintf(template, entityName, window(start, end))
}

func window(start, end time.Time) string {
	if start.IsZero() {
		return fmt.Sprintf("all available history up to %s", end.Format(DateLayout))
	}
	return fmt.Sprintf("from %s to %s", start.Format(DateLayout), end.Format(DateLayout))
}

// WithEvidence 在提示词后追加检索到的新闻证据
func WithEvidence(prompt string, articles []model.Article) string {
	if len(articles) == 0 {
		return prompt
	}

	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\nThe following news articles were retrieved for this entity. Use them as evidence where relevant and cite their sources:\n\n")
	for i, art := range articles {
		content := textutil.Truncate(art.Content, maxEvidenceChars)
		fmt.Fprintf(&sb, "Article %d:\nTitle: %s\nSource: %s\nPublished: %s\nURL: %s\nContent: %s\n\n",
			i+1, art.Title, art.Source, art.PubDate, art.Link, content)
	}
	sb.WriteString("Return ONLY valid JSON, no markdown.")
	return sb.String()
}
