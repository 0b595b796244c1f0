package repository

import (
	"time"

	"github.com/Shivanand-hulikatti/wedding-wander/internal/model"
)

// SampleEvents returns the built-in catalog written on first start.
func SampleEvents(now time.Time) []model.WeddingEvent {
	return []model.WeddingEvent{
		{
			ID:            "1",
			Title:         "Elena & Marco's Santorini Dream",
			CoupleName:    "Elena & Marco",
			Location:      "Santorini, Greece",
			Country:       "greece",
			Date:          "2024-06-15",
			Time:          "18:00",
			Venue:         "Blue Domed Church, Oia",
			Description:   "A breathtaking clifftop ceremony overlooking the Aegean Sea with spectacular sunset backdrop and traditional Greek elements.",
			Image:         "https://images.unsplash.com/photo-1613395877344-13d4a8e0d49e?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			MaxGuests:     80,
			CurrentGuests: 24,
			Price:         450,
			Category:      "Island Wedding",
			Features:      []string{"Sunset Ceremony", "Greek Traditional Music", "Mediterranean Cuisine", "Boat Transfer", "Photo Session"},
			Dresscode:     "Cocktail attire in light colors",
			CoupleStory:   "Elena and Marco met during a cooking class in Rome and have been inseparable ever since. They're passionate about travel and wanted to share their special day with friends from around the world.",
			IsActive:      true,
			CreatedAt:     now,
		},
		{
			ID:            "2",
			Title:         "Alessandro & Sofia's Tuscan Romance",
			CoupleName:    "Alessandro & Sofia",
			Location:      "Tuscany, Italy",
			Country:       "italy",
			Date:          "2024-07-22",
			Time:          "17:30",
			Venue:         "Villa Bella Vista Vineyard",
			Description:   "An intimate celebration among rolling vineyards with wine tasting and traditional Italian feast in the heart of Tuscany.",
			Image:         "https://images.unsplash.com/photo-1464366400600-7168b8af9bc3?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			MaxGuests:     60,
			CurrentGuests: 18,
			Price:         520,
			Category:      "Vineyard Wedding",
			Features:      []string{"Vineyard Ceremony", "Wine Tasting", "Traditional Italian Menu", "Live Band", "Accommodation Assistance"},
			Dresscode:     "Garden party elegant",
			CoupleStory:   "Alessandro is a sommelier and Sofia is a chef. Their love story began in the vineyards of Tuscany where they now invite you to celebrate their union surrounded by the wines they've crafted together.",
			IsActive:      true,
			CreatedAt:     now,
		},
		{
			ID:            "3",
			Title:         "Kai & Aisha's Tropical Paradise",
			CoupleName:    "Kai & Aisha",
			Location:      "Bali, Indonesia",
			Country:       "indonesia",
			Date:          "2024-08-10",
			Time:          "16:00",
			Venue:         "Bamboo Forest Temple, Ubud",
			Description:   "A bohemian beach ceremony with traditional Balinese blessings and tropical flower arrangements in paradise.",
			Image:         "https://images.unsplash.com/photo-1537633552985-df8429e8048b?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			MaxGuests:     90,
			CurrentGuests: 32,
			Price:         380,
			Category:      "Beach Wedding",
			Features:      []string{"Beachfront Ceremony", "Traditional Balinese Blessing", "Tropical Cuisine", "Fire Show", "Spa Treatments"},
			Dresscode:     "Bohemian chic, earth tones",
			CoupleStory:   "Kai and Aisha are yoga instructors who fell in love during a retreat in Bali. They're inviting their global community to witness their commitment in the sacred space where their journey began.",
			IsActive:      true,
			CreatedAt:     now,
		},
		{
			ID:            "4",
			Title:         "Pierre & Camille's Château Romance",
			CoupleName:    "Pierre & Camille",
			Location:      "Provence, France",
			Country:       "france",
			Date:          "2024-09-05",
			Time:          "19:00",
			Venue:         "Château de Lavande",
			Description:   "A fairytale wedding in a historic château surrounded by endless lavender fields and French countryside charm.",
			Image:         "https://images.unsplash.com/photo-1464207687429-7505649dae38?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			MaxGuests:     120,
			CurrentGuests: 45,
			Price:         650,
			Category:      "Château Wedding",
			Features:      []string{"Lavender Field Ceremony", "French Wine Tasting", "Château Reception", "Provence Market Tour", "Cooking Class"},
			Dresscode:     "Formal romantic attire",
			CoupleStory:   "Pierre is a perfumer and Camille is an artist. They met at a lavender festival and their romance bloomed like the flowers around them. Join them for an enchanting evening in their magical château.",
			IsActive:      true,
			CreatedAt:     now,
		},
		{
			ID:            "5",
			Title:         "Diego & Luna's Desert Magic",
			CoupleName:    "Diego & Luna",
			Location:      "Tulum, Mexico",
			Country:       "mexico",
			Date:          "2024-10-12",
			Time:          "17:00",
			Venue:         "Mystical Cenote Gardens",
			Description:   "A mystical ceremony in the desert with traditional Mexican music, colorful decorations, and ancient Mayan influences.",
			Image:         "https://images.unsplash.com/photo-1478146896981-b80fe463b330?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			MaxGuests:     100,
			CurrentGuests: 28,
			Price:         420,
			Category:      "Desert Wedding",
			Features:      []string{"Desert Ceremony", "Traditional Mariachi", "Mexican Feast", "Cenote Swimming", "Stargazing Experience"},
			Dresscode:     "Colorful festive attire",
			CoupleStory:   "Diego and Luna are musicians who traveled the world before finding their home in Mexico's sacred cenotes. Their wedding celebrates the fusion of their cultures and their love for music.",
			IsActive:      true,
			CreatedAt:     now,
		},
		{
			ID:            "6",
			Title:         "Yuki & Takeshi's Cherry Blossom Wedding",
			CoupleName:    "Yuki & Takeshi",
			Location:      "Kyoto, Japan",
			Country:       "japan",
			Date:          "2024-04-20",
			Time:          "14:00",
			Venue:         "Maruyama Park Temple",
			Description:   "A traditional Japanese ceremony during cherry blossom season in the ancient capital with authentic cultural experiences.",
			Image:         "https://images.unsplash.com/photo-1490806843957-31f4c9a91c65?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			MaxGuests:     70,
			CurrentGuests: 45,
			Price:         580,
			Category:      "Garden Wedding",
			Features:      []string{"Traditional Tea Ceremony", "Kimono Experience", "Sake Tasting", "Garden Reception", "Cultural Performances"},
			Dresscode:     "Traditional attire welcome",
			CoupleStory:   "Yuki and Takeshi honor their heritage with a ceremony that brings together ancient traditions and modern celebration. Experience the beauty of Japanese culture and hospitality during the magical sakura season.",
			IsActive:      true,
			CreatedAt:     now,
		},
	}
}
