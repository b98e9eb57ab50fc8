package config

import "github.com/welezhka/goodsky/internal/models"

// Compiled-in defaults. FEEDS, FEEDS_FILE and the YAML document override
// any of these at startup.

var defaultFeeds = []string{
	"https://jacobin.com/feed",
	"https://www.dsausa.org/feed/",
	"https://www.thenation.com/feed/?post_type=article",
	"https://inthesetimes.com/rss/articles",
	"https://www.commondreams.org/rss-feed",
	"https://truthout.org/feed/",
	"https://progressive.org/feed/",
	"https://theintercept.com/feed/",
	"https://www.theguardian.com/us-news/us-politics/rss",
	"https://www.truthdig.com/feed/",
	"https://www.counterpunch.org/feed/",
	"https://www.democracynow.org/democracynow.rss",
	"https://therealnews.com/feed/",
	"https://labornotes.org/rss.xml",
	"https://shadowproof.com/feed/",
	"https://popularresistance.org/feed/",
	"https://wagingnonviolence.org/feed/",
	"https://www.leftvoice.org/feed/",
}

var defaultKeywordGroups = []models.KeywordGroup{
	{
		Name: "social",
		Keywords: []string{
			"progressive", "progressivism", "socialism", "socialist", "left wing",
			"left-wing", "leftist", "social justice", "equity", "fair wages",
			"income inequality", "wealth inequality", "wealth tax",
			"progressive taxation", "corporate accountability",
			"campaign finance reform", "economic justice", "solidarity economy",
			"public ownership", "public investment",
		},
	},
	{
		Name: "labor",
		Keywords: []string{
			"labor rights", "unionization", "union", "right to strike",
			"collective bargaining", "worker rights", "workers' rights",
			"labor movement", "living wage", "minimum wage", "tenant union",
			"tenant rights", "rent control", "strike", "solidarity",
			"organize", "mobilize", "workers",
		},
	},
	{
		Name: "housing",
		Keywords: []string{
			"affordable housing", "housing justice", "housing for all",
			"public housing", "social housing", "community land trust",
			"cancel rent", "good cause eviction", "stop gentrification",
		},
	},
	{
		Name: "environment",
		Keywords: []string{
			"climate justice", "environmental justice", "climate action",
			"green new deal", "green jobs", "climate resilience",
			"renewable energy", "green infrastructure", "decarbonization",
			"zero emissions", "green transition", "youth climate movement",
		},
	},
	{
		Name: "civil-rights",
		Keywords: []string{
			"civil rights", "racial justice", "racial equity", "lgbtq rights",
			"trans rights", "gender equality", "inclusivity", "prison reform",
			"police accountability", "immigrant rights", "sanctuary cities",
			"reproductive rights", "voting rights",
		},
	},
	{
		Name: "public-services",
		Keywords: []string{
			"public transit", "public transportation", "universal healthcare",
			"medicare for all", "single payer", "public education",
			"universal pre-k", "tuition free college", "cancel student debt",
			"public broadband", "universal childcare", "paid family leave",
			"paid sick leave",
		},
	},
	{
		Name: "uplift",
		Keywords: []string{
			"win", "wins", "victory", "gains", "success", "growth", "community",
			"charity", "outreach", "celebrate", "healing", "hope", "love",
			"champion", "ceasefire", "truth", "future",
		},
	},
}

var defaultNegativeKeywords = []string{
	"death", "deadly", "killed", "kill", "killing", "violence", "attack",
	"crisis", "disaster", "scandal", "accident", "injured", "tragedy",
	"fraud", "collapse", "bomb", "shooting", "war", "loser", "awful",
	"horrible", "terrible", "tragic", "destroy", "raid", "fear", "broken",
	"destruction",
}
