package authoring

import (
	"fmt"
	"strings"

	"github.com/yufin/yufin/internal/content"
)

const systemPrompt = `You write short, concrete financial literacy lessons for teenagers. Lessons use everyday situations: pocket money, shopping, saving, comparing prices. Amounts are in Brazilian reais.`

func buildUserMessage(req Request, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Lesson type: %s\n", req.Type.DisplayName())
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Language: %s\n", cfg.Language)
	if req.Items > 0 {
		fmt.Fprintf(&b, "Number of items: %d\n", req.Items)
	}

	b.WriteString("\nInstructions:\n")
	switch req.Type {
	case content.TypeChoice:
		b.WriteString(`1. Write one question with 3 or 4 options.
2. Exactly one option is correct.
3. Every option has feedback explaining the consequence of choosing it.`)
	case content.TypeMatch:
		b.WriteString(`1. Write pairs of a term and its meaning or example.
2. Each left side and each right side must be unique.
3. Use "memory" only for 4 to 6 short pairs; otherwise use "association".`)
	case content.TypeMath:
		b.WriteString(`1. Write word problems whose answers are single numbers.
2. Answers may have at most two decimal places.
3. Use 0.01 as tolerance unless the answer is a whole count.`)
	case content.TypeShopping:
		b.WriteString(`1. Set a realistic budget and 5 to 8 products.
2. Buying every product must exceed the budget.
3. Some products are on promotion: promotionPrice is lower than price. Others have promotionPrice 0.
4. A sensible cart must leave at least 30% of the budget.`)
	}
	b.WriteString("\nUse plain text. No markdown.")

	return b.String()
}
