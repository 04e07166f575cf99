package config

// Default returns the compiled-in configuration. Keyword lexicons and
// prompt templates mirror the product's Korean conversation domain and can
// be overridden per deployment via config.toml.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-1.5-flash",
		},
		Database: DatabaseConfig{
			DSN: "postgres://localhost:5432/anbu?sslmode=disable",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Risk: RiskConfig{
			HealthEmergency: []string{
				"응급실", "입원", "119", "구급차", "쓰러졌", "낙상", "넘어졌",
				"호흡곤란", "가슴통증", "의식불명", "골절",
			},
			SafetyRisk: []string{
				"도둑", "사고", "화재", "가스", "도난", "위험", "112",
			},
			MentalCrisis: []string{
				"죽고싶", "자살", "포기", "살기싫", "외롭", "우울", "힘들",
			},
		},
		Prompts: PromptsConfig{
			// %s: conversation transcript
			Health: `다음은 부모님과 자녀 간의 대화 내용입니다.
대화에서 건강 관련 키워드와 이슈를 추출하여 JSON 형식으로 분석해주세요.

대화 내용:
%s

다음 JSON 형식으로만 응답해주세요 (다른 텍스트 없이):
{
  "keywords": ["키워드1", "키워드2"],
  "severity": 1-10 사이의 정수 (높을수록 심각),
  "summary": "건강 상태 요약 (2-3문장)",
  "recommendation": "권장 조치사항 (2-3문장)"
}

분석 기준:
- 통증, 질병, 불편함 언급 파악
- "무릎 아파", "당뇨", "혈압" 등 건강 키워드 추출
- severity: 응급실/입원(9-10), 심각한 통증(7-8), 중간 통증(4-6), 경미(1-3)`,

			// %s: conversation transcript
			Emotion: `다음은 부모님과 자녀 간의 대화 내용입니다.
부모님의 감정 상태를 분석하여 JSON 형식으로 응답해주세요.

대화 내용:
%s

다음 JSON 형식으로만 응답해주세요 (다른 텍스트 없이):
{
  "emotionType": "주요 감정 (예: 긍정, 우울, 외로움, 불안, 평온)",
  "emotionScore": -10 ~ +10 사이의 정수 (음수는 부정, 양수는 긍정),
  "description": "감정 상태 설명 (2-3문장)",
  "conversationTips": ["대화 소재 제안1", "대화 소재 제안2", "대화 소재 제안3"]
}

분석 기준:
- "외롭다", "포기" 등 부정 키워드는 낮은 점수
- "좋아", "행복해", "즐거워" 등 긍정 키워드는 높은 점수
- conversationTips: 부모님과 대화할 수 있는 소재 3가지 제안`,

			// %s: conversation transcript
			Needs: `다음은 부모님과 자녀 간의 대화 내용입니다.
부모님의 숨은 니즈(필요 물품, 서비스)를 파악하여 JSON 형식으로 응답해주세요.

대화 내용:
%s

다음 JSON 형식으로만 응답해주세요 (다른 텍스트 없이):
{
  "category": "카테고리 (건강/의료, 생활용품, 식품, 여가, 기타 중 하나)",
  "items": ["항목1", "항목2"],
  "priority": 1-10 사이의 정수 (높을수록 시급),
  "context": "니즈 발생 맥락 (2-3문장)",
  "recommendations": ["추천 상품/서비스1", "추천 상품/서비스2", "추천 상품/서비스3"]
}

분석 기준:
- "필요해", "사고 싶어", "있으면 좋겠어" 등 구매 의도 파악
- priority: 건강 관련(8-10), 생활 불편(5-7), 선호(1-4)`,

			// %s: alert type, %s: matched message excerpts
			Corroboration: `다음 대화에서 '%s' 타입의 긴급 상황이 감지되었습니다.
이것이 실제 긴급 상황인지 분석해주세요.

대화 내용:
%s

다음 형식으로 2-3문장으로 분석해주세요:
- 실제 긴급 상황인지 여부
- 상황의 심각도
- 권장 조치사항`,

			// %s: health summary, %s: emotion summary, %s: needs summary
			Overview: `다음은 부모님의 이번 주 상태 분석 결과입니다.
이를 종합하여 자녀에게 전달할 따뜻한 요약문을 2-3문장으로 작성해주세요.

[건강 상태]
%s

[감정 상태]
%s

[니즈/필요사항]
%s

요약문만 작성해주세요 (다른 설명 없이):`,

			// %s: health summary, %s: emotion summary, %s: needs summary
			Tips: `다음은 부모님의 이번 주 상태 분석 결과입니다.
자녀가 부모님과 대화할 때 사용할 수 있는 대화 소재를 1~3가지 제안해주세요.

[건강 상태]
%s

[감정 상태]
%s

[니즈/필요사항]
%s

다음 JSON 배열 형식으로만 응답해주세요:
[
  {
    "content": "대화 소재 내용",
    "priority": 1-10 사이의 정수,
    "category": "카테고리 (건강 관심, 감정 케어, 취미 공유 중 하나)"
  }
]

대화 소재는 자연스럽고 따뜻하게 작성해주세요.`,
		},
	}
}
