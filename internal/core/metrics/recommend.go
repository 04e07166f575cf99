package metrics

import (
	"fmt"
	"sort"
	"strings"
)

type TipSuggestion struct {
	Questions []string `json:"questions"`
	Topics    []string `json:"topics"`
	Priority  int      `json:"priority"`
	Category  string   `json:"category"`
}

// keywordQuestions maps a conversation keyword to a ready-made follow-up
// question for the family member.
var keywordQuestions = map[string]string{
	"무릎": "무릎은 좀 어떠세요? 많이 불편하신가요?",
	"병원": "병원 다녀오셨어요? 어떻게 되셨나요?",
	"손주": "손주들은 잘 크고 있나요? 보고 싶으시죠?",
	"친구": "친구분들은 요즘 어떻게 지내세요?",
	"날씨": "날씨가 많이 추워졌는데 괜찮으세요?",
}

// SuggestConversationTips builds follow-up questions from recent keywords
// and topics. A CONCERNED emotion status prepends care questions and lifts
// the priority to the maximum.
func SuggestConversationTips(recentKeywords, recentTopics []string, emotionStatus string) TipSuggestion {
	var questions []string
	topics := []string{}
	priority := tipPriority(emotionStatus)

	if emotionStatus == "CONCERNED" {
		questions = append(questions,
			"요즘 어떠세요? 걱정되는 일이 있으신가요?",
			"힘든 일이 있으면 언제든 말씀해주세요",
		)
		priority = 10
	}

	for _, keyword := range recentKeywords {
		if question, ok := keywordQuestions[keyword]; ok {
			questions = append(questions, question)
			topics = append(topics, keyword)
		}
	}

	for _, topic := range recentTopics {
		questions = append(questions, fmt.Sprintf("%s 이야기 더 들려주세요", topic))
	}

	return TipSuggestion{
		Questions: distinctHead(questions, 5),
		Topics:    topics,
		Priority:  priority,
		Category:  tipCategory(emotionStatus),
	}
}

func distinctHead(values []string, limit int) []string {
	seen := make(map[string]struct{}, len(values))
	unique := []string{}
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
		if len(unique) == limit {
			break
		}
	}
	return unique
}

func tipPriority(emotionStatus string) int {
	switch emotionStatus {
	case "CONCERNED":
		return 10
	case "NEUTRAL":
		return 5
	case "POSITIVE":
		return 3
	default:
		return 1
	}
}

func tipCategory(emotionStatus string) string {
	switch emotionStatus {
	case "CONCERNED":
		return "정서적 지원"
	case "NEUTRAL":
		return "일상 대화"
	case "POSITIVE":
		return "긍정 강화"
	default:
		return "일반"
	}
}

type ProductSuggestion struct {
	Name         string `json:"name"`
	DetectedNeed string `json:"detectedNeed"`
	Suggestion   string `json:"suggestion"`
	Link         string `json:"link"`
	Priority     int    `json:"priority"`
	Category     string `json:"category"`
}

// MatchProducts matches detected needs and conversation keywords to the
// product catalog, returning up to five suggestions by priority.
func MatchProducts(needs, keywords []string) []ProductSuggestion {
	suggestions := []ProductSuggestion{}

	for _, need := range needs {
		if suggestion, ok := matchProductToNeed(need); ok {
			suggestions = append(suggestions, suggestion)
		}
	}

	for _, keyword := range keywords {
		suggestion, ok := keywordProducts[keyword]
		if !ok {
			continue
		}
		if !containsSuggestion(suggestions, suggestion) {
			suggestions = append(suggestions, suggestion)
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Priority > suggestions[j].Priority
	})
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return suggestions
}

func matchProductToNeed(need string) (ProductSuggestion, bool) {
	lower := strings.ToLower(need)

	switch {
	case strings.Contains(lower, "무릎") || strings.Contains(lower, "관절"):
		return ProductSuggestion{
			Name:         "관절 건강 제품",
			DetectedNeed: need,
			Suggestion:   "MSM 관절 영양제",
			Link:         "https://shopping.example.com/joint-supplement",
			Priority:     10,
			Category:     "건강",
		}, true
	case strings.Contains(lower, "잠") || strings.Contains(lower, "수면"):
		return ProductSuggestion{
			Name:         "숙면 유도 아이템",
			DetectedNeed: need,
			Suggestion:   "라벤더 아로마 세트",
			Link:         "https://shopping.example.com/sleep-aid",
			Priority:     9,
			Category:     "웰빙",
		}, true
	case strings.Contains(lower, "밥") || strings.Contains(lower, "식사"):
		return ProductSuggestion{
			Name:         "식욕 증진 보양식",
			DetectedNeed: need,
			Suggestion:   "한방 보양식 세트",
			Link:         "https://shopping.example.com/health-food",
			Priority:     8,
			Category:     "식품",
		}, true
	}
	return ProductSuggestion{}, false
}

var keywordProducts = map[string]ProductSuggestion{
	"등산": {
		Name:         "등산용품",
		DetectedNeed: "등산 관련 대화",
		Suggestion:   "기능성 등산화",
		Link:         "https://shopping.example.com/hiking-shoes",
		Priority:     7,
		Category:     "레저",
	},
	"요리": {
		Name:         "주방용품",
		DetectedNeed: "요리 관련 대화",
		Suggestion:   "실버세대용 주방기구",
		Link:         "https://shopping.example.com/kitchen",
		Priority:     6,
		Category:     "생활",
	},
	"책": {
		Name:         "독서용품",
		DetectedNeed: "독서 관련 대화",
		Suggestion:   "큰 활자 도서 추천",
		Link:         "https://shopping.example.com/books",
		Priority:     5,
		Category:     "문화",
	},
}

func containsSuggestion(suggestions []ProductSuggestion, candidate ProductSuggestion) bool {
	for _, s := range suggestions {
		if s == candidate {
			return true
		}
	}
	return false
}
