package category

import "github.com/FACorreiaa/go-lunch-roulette/internal/types"

// Languages whose keyword lists are consulted by the keyword tier.
var Languages = []string{"en", "zh", "ja"}

// BroadTypes carry no cuisine signal; records tagged only with these may be
// classified by name.
var BroadTypes = []string{
	"restaurant",
	"food",
	"point_of_interest",
	"establishment",
	"meal_takeaway",
	"meal_delivery",
	"food_court",
}

// AlwaysKeepTypes survive every blacklist.
var AlwaysKeepTypes = []string{"restaurant", "food_court"}

// TypeUniverse is the provider's food & drink taxonomy searched when no
// narrower set applies.
var TypeUniverse = []string{
	"acai_shop", "afghani_restaurant", "african_restaurant", "american_restaurant",
	"asian_restaurant", "bagel_shop", "bakery", "bar", "bar_and_grill",
	"barbecue_restaurant", "brazilian_restaurant", "breakfast_restaurant",
	"brunch_restaurant", "buffet_restaurant", "cafe", "cafeteria", "candy_store",
	"cat_cafe", "chinese_restaurant", "chocolate_factory", "chocolate_shop",
	"coffee_shop", "confectionery", "deli", "dessert_restaurant", "dessert_shop",
	"diner", "dog_cafe", "donut_shop", "fast_food_restaurant",
	"fine_dining_restaurant", "food_court", "french_restaurant", "greek_restaurant",
	"hamburger_restaurant", "ice_cream_shop", "indian_restaurant",
	"indonesian_restaurant", "italian_restaurant", "japanese_restaurant",
	"juice_shop", "korean_restaurant", "lebanese_restaurant", "meal_delivery",
	"meal_takeaway", "mediterranean_restaurant", "mexican_restaurant",
	"middle_eastern_restaurant", "pizza_restaurant", "pub", "ramen_restaurant",
	"restaurant", "sandwich_shop", "seafood_restaurant", "spanish_restaurant",
	"steak_house", "sushi_restaurant", "tea_house", "thai_restaurant",
	"turkish_restaurant", "vegan_restaurant", "vegetarian_restaurant",
	"vietnamese_restaurant", "wine_bar",
}

func defaultDefinitions() []types.CategoryDefinition {
	return []types.CategoryDefinition{
		{
			ID:     "chinese",
			Labels: map[string]string{"en": "Chinese", "zh": "中式料理", "ja": "中華料理"},
			Types:  []string{"chinese_restaurant"},
			Keywords: map[string][]string{
				"en": {"chinese", "dim sum", "dumpling", "szechuan", "cantonese"},
				"zh": {"中餐", "中式", "小籠包", "水餃", "川菜", "港式", "熱炒"},
				"ja": {"中華", "餃子"},
			},
		},
		{
			ID:               "japanese",
			Labels:           map[string]string{"en": "Japanese", "zh": "日式料理", "ja": "和食"},
			Types:            []string{"japanese_restaurant", "sushi_restaurant", "ramen_restaurant"},
			NegativeKeywords: []string{"korean", "韓式"},
			Keywords: map[string][]string{
				"en": {"japanese", "sushi", "ramen", "izakaya", "udon", "tempura", "donburi"},
				"zh": {"日式", "壽司", "拉麵", "丼", "居酒屋", "烏龍麵", "定食"},
				"ja": {"寿司", "ラーメン", "うどん", "そば", "居酒屋", "定食"},
			},
		},
		{
			ID:     "korean",
			Labels: map[string]string{"en": "Korean", "zh": "韓式料理", "ja": "韓国料理"},
			Types:  []string{"korean_restaurant"},
			Keywords: map[string][]string{
				"en": {"korean", "bibimbap", "kimchi", "bulgogi"},
				"zh": {"韓式", "韓國", "石鍋拌飯", "泡菜"},
				"ja": {"韓国", "ビビンバ", "キムチ"},
			},
		},
		{
			ID:     "southeast_asian",
			Labels: map[string]string{"en": "Southeast Asian", "zh": "東南亞料理", "ja": "東南アジア料理"},
			Types:  []string{"thai_restaurant", "vietnamese_restaurant", "indonesian_restaurant"},
			Keywords: map[string][]string{
				"en": {"thai", "vietnamese", "pho", "banh mi", "laksa", "malaysian", "indonesian"},
				"zh": {"泰式", "越南", "河粉", "南洋", "星馬", "印尼"},
				"ja": {"タイ料理", "ベトナム", "フォー"},
			},
		},
		{
			ID:     "indian",
			Labels: map[string]string{"en": "Indian", "zh": "印度料理", "ja": "インド料理"},
			Types:  []string{"indian_restaurant"},
			Keywords: map[string][]string{
				"en": {"indian", "curry", "tandoori", "masala"},
				"zh": {"印度", "咖哩"},
				"ja": {"インド", "カレー"},
			},
		},
		{
			ID:     "western",
			Labels: map[string]string{"en": "Western", "zh": "西式料理", "ja": "洋食"},
			Types: []string{
				"american_restaurant", "italian_restaurant", "french_restaurant",
				"spanish_restaurant", "greek_restaurant", "mediterranean_restaurant",
				"steak_house", "pizza_restaurant", "diner", "bar_and_grill",
			},
			Keywords: map[string][]string{
				"en": {"bistro", "trattoria", "pasta", "pizza", "steak", "brasserie"},
				"zh": {"義式", "義大利麵", "披薩", "牛排", "法式", "美式", "西餐"},
				"ja": {"イタリアン", "パスタ", "ピザ", "ステーキ", "洋食", "フレンチ"},
			},
		},
		{
			ID:               "fast_food",
			Labels:           map[string]string{"en": "Fast food", "zh": "速食", "ja": "ファストフード"},
			Types:            []string{"fast_food_restaurant", "hamburger_restaurant", "sandwich_shop"},
			NegativeKeywords: []string{"slow food"},
			Keywords: map[string][]string{
				"en": {"burger", "fried chicken", "mcdonald", "kfc", "subway"},
				"zh": {"漢堡", "炸雞", "麥當勞", "肯德基", "摩斯"},
				"ja": {"バーガー", "マクドナルド", "ケンタッキー"},
			},
		},
		{
			ID:               "cafe",
			Labels:           map[string]string{"en": "Café", "zh": "咖啡廳", "ja": "カフェ"},
			Types:            []string{"cafe", "coffee_shop", "tea_house", "cat_cafe", "dog_cafe"},
			NegativeKeywords: []string{"internet cafe", "網咖", "ネットカフェ", "漫画喫茶"},
			Keywords: map[string][]string{
				"en": {"cafe", "café", "coffee", "espresso", "tea room"},
				"zh": {"咖啡", "茶館", "喫茶"},
				"ja": {"カフェ", "珈琲", "コーヒー", "喫茶"},
			},
		},
		{
			ID:     "dessert",
			Labels: map[string]string{"en": "Desserts & bakery", "zh": "甜點烘焙", "ja": "スイーツ・ベーカリー"},
			Types: []string{
				"bakery", "dessert_shop", "dessert_restaurant", "ice_cream_shop",
				"donut_shop", "bagel_shop", "confectionery", "chocolate_shop",
				"candy_store", "acai_shop",
			},
			Keywords: map[string][]string{
				"en": {"dessert", "bakery", "cake", "gelato", "waffle", "pastry"},
				"zh": {"甜點", "烘焙", "蛋糕", "冰品", "豆花", "剉冰", "麵包"},
				"ja": {"スイーツ", "ケーキ", "パン", "ジェラート"},
			},
		},
		{
			ID:     "breakfast",
			Labels: map[string]string{"en": "Breakfast & brunch", "zh": "早午餐", "ja": "朝食・ブランチ"},
			Types:  []string{"breakfast_restaurant", "brunch_restaurant"},
			Keywords: map[string][]string{
				"en": {"breakfast", "brunch", "pancake"},
				"zh": {"早餐", "早午餐", "蛋餅"},
				"ja": {"モーニング", "ブランチ", "朝食"},
			},
		},
		{
			ID:               "vegetarian",
			Labels:           map[string]string{"en": "Vegetarian", "zh": "素食", "ja": "ベジタリアン"},
			Types:            []string{"vegetarian_restaurant", "vegan_restaurant"},
			NegativeKeywords: []string{"steak", "bbq", "牛排", "燒肉", "焼肉"},
			Keywords: map[string][]string{
				"en": {"vegetarian", "vegan", "plant based", "plant-based"},
				"zh": {"素食", "蔬食", "素菜"},
				"ja": {"ヴィーガン", "精進料理", "ベジ"},
			},
		},
		{
			ID:     "seafood",
			Labels: map[string]string{"en": "Seafood", "zh": "海鮮", "ja": "海鮮"},
			Types:  []string{"seafood_restaurant"},
			Keywords: map[string][]string{
				"en": {"seafood", "oyster", "fish and chips", "lobster"},
				"zh": {"海鮮", "海產", "生蠔"},
				"ja": {"海鮮", "魚介"},
			},
		},
		{
			ID:     "middle_eastern",
			Labels: map[string]string{"en": "Middle Eastern", "zh": "中東料理", "ja": "中東料理"},
			Types: []string{
				"middle_eastern_restaurant", "lebanese_restaurant", "turkish_restaurant",
				"afghani_restaurant",
			},
			Keywords: map[string][]string{
				"en": {"kebab", "falafel", "shawarma", "hummus"},
				"zh": {"沙威瑪", "土耳其", "中東"},
				"ja": {"ケバブ", "ファラフェル"},
			},
		},
		{
			ID:     "latin",
			Labels: map[string]string{"en": "Latin American", "zh": "拉丁美洲料理", "ja": "中南米料理"},
			Types:  []string{"mexican_restaurant", "brazilian_restaurant"},
			Keywords: map[string][]string{
				"en": {"taco", "burrito", "mexican", "churrasco"},
				"zh": {"墨西哥", "塔可"},
				"ja": {"タコス", "メキシカン"},
			},
		},
		{
			ID:     "bar",
			Labels: map[string]string{"en": "Bars & pubs", "zh": "酒吧", "ja": "バー・パブ"},
			Types:  []string{"bar", "pub", "wine_bar"},
			Keywords: map[string][]string{
				"en": {"pub", "taproom", "brewery", "tavern"},
				"zh": {"酒吧", "餐酒館", "啤酒"},
				"ja": {"バー", "ビアホール", "立ち飲み"},
			},
		},
		{
			// Keyword-only: the provider has no hot pot type tag.
			ID:     "hot_pot",
			Labels: map[string]string{"en": "Hot pot", "zh": "火鍋", "ja": "鍋料理"},
			Keywords: map[string][]string{
				"en": {"hot pot", "hotpot", "shabu"},
				"zh": {"火鍋", "鍋物", "涮涮鍋", "麻辣鍋", "薑母鴨", "羊肉爐"},
				"ja": {"しゃぶしゃぶ", "火鍋", "もつ鍋"},
			},
		},
		{
			// Keyword-only: noodle shops are usually tagged with a generic type.
			ID:               "noodles",
			Labels:           map[string]string{"en": "Noodles", "zh": "麵食", "ja": "麺類"},
			NegativeKeywords: []string{"麵包", "bread"},
			Keywords: map[string][]string{
				"en": {"noodle", "pho", "udon", "soba"},
				"zh": {"麵", "牛肉麵", "拉麵", "米粉", "粄條"},
				"ja": {"麺", "ラーメン", "うどん", "そば"},
			},
		},
		{
			ID:     "buffet",
			Labels: map[string]string{"en": "Buffet", "zh": "自助餐", "ja": "ビュッフェ"},
			Types:  []string{"buffet_restaurant", "cafeteria"},
			Keywords: map[string][]string{
				"en": {"buffet", "all you can eat"},
				"zh": {"自助餐", "吃到飽", "便當"},
				"ja": {"ビュッフェ", "食べ放題", "バイキング"},
			},
		},
	}
}
