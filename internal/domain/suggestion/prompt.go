package suggestion

import (
	"github.com/valyala/bytebufferpool"
)

const (
	promptIntro = "IMPORTANT: If there is no clear or meaningful connection, shared award, rivalry, team, nationality, or major story between the two players as explicitly stated in the opening summary table or first paragraph of each player's English Wikipedia page, simply state: 'There is no significant connection between these players.' " +
		"Do NOT invent, speculate, or exaggerate any story, postseason moment, or relationship. " +
		"If the only possible comparison is generic (e.g., both are young or both are hitters), say so and do not force a comparison. "
	promptCompare = "Now, after comparing MLB players "
	promptAsk     = ", suggest one new pair of MLB hitters (not pitchers) who hit 20 or more home runs in the 2024 season, and are currently active as of the 2025 season. Do NOT include the same pair (regardless of order) as above. "
	promptRules   = "If you mention an MVP, Rookie of the Year, or Home Run King title, give only the correct year and award, as written in Wikipedia. " +
		"Cite birth country, position, or award only from the infobox or opening paragraph of the player’s Wikipedia page. Do NOT include any statistics or numbers. " +
		"Only mention walk-off home runs or postseason heroics if explicitly documented on Wikipedia. " +
		"Limit the explanation to 40 words. " +
		"Output only as:\n" +
		"Pair: <PlayerA> and <PlayerB>\nReason: <40-words fact-based reason or 'There is no significant connection between these players.'>"
)

// BuildPrompt renders the next-pair request for the two players currently
// being compared.
func BuildPrompt(player1, player2 string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(promptIntro)
	_, _ = buf.WriteString(promptCompare)
	_, _ = buf.WriteString(player1)
	_, _ = buf.WriteString(" and ")
	_, _ = buf.WriteString(player2)
	_, _ = buf.WriteString(promptAsk)
	_, _ = buf.WriteString(promptRules)

	return buf.String()
}
