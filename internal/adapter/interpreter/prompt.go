package interpreter

import "fmt"

const systemPromptTemplate = `You translate inventory requests into structured operations.

The inventory service offers:

%s

Respond with a single JSON object and nothing else:
{"operations": [{"type": "query" | "adjust", "item": "<item>", "change": <integer>}],
 "insufficient_information": false}

Rules:
1. A question about stock levels is {"type": "query"}; add "item" only when one item is named.
2. Adding or receiving goods is {"type": "adjust"} with a positive "change".
3. Selling, shipping or removing goods is {"type": "adjust"} with a negative "change".
4. Emit one operation per clause, in the order they appear.
5. Never guess a quantity. If an item, direction or quantity is missing, reply with
   {"operations": [], "insufficient_information": true,
    "ambiguous_fragment": "<the unclear words>", "question": "<one short question>"}.
6. Use only the item names listed above.`

func systemPrompt(capability string) string {
	return fmt.Sprintf(systemPromptTemplate, capability)
}
