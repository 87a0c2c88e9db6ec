package catalog

var menuCategories = []Category{
	{Slug: "starters", Name: "Starters"},
	{Slug: "mains", Name: "Mains"},
	{Slug: "tacos", Name: "Tacos & Wraps"},
	{Slug: "sides", Name: "Sides"},
	{Slug: "desserts", Name: "Desserts"},
	{Slug: "drinks", Name: "Drinks"},
}

var menuItems = []Item{
	{
		ID: 1, Name: "Crispy Samosa Bites", PriceCents: 599,
		Description: "Golden pastry pockets with spiced potato and peas, tamarind dip.",
		Category:    "starters", Image: "/images/menu/samosa-bites.jpg",
		Tags:        []string{"vegetarian", "popular"},
		SpiceLevels: true,
		Toppings: []Topping{
			{Name: "Mint Chutney", PriceCents: 75},
			{Name: "Extra Tamarind", PriceCents: 50},
		},
	},
	{
		ID: 2, Name: "Loaded Nachos", PriceCents: 899,
		Description: "Corn tortilla chips, queso, pico de gallo, pickled jalapeños.",
		Category:    "starters", Image: "/images/menu/loaded-nachos.jpg",
		Tags:        []string{"shareable"},
		SpiceLevels: true,
		Toppings: []Topping{
			{Name: "Cheese", PriceCents: 100},
			{Name: "Salsa", PriceCents: 75},
			{Name: "Guacamole", PriceCents: 150},
			{Name: "Sour Cream", PriceCents: 75},
		},
	},
	{
		ID: 3, Name: "Chicken Tikka Skewers", PriceCents: 1049,
		Description: "Char-grilled chicken marinated in yogurt and warm spices.",
		Category:    "starters", Image: "/images/menu/tikka-skewers.jpg",
		Tags:        []string{"gluten-free"},
		SpiceLevels: true,
	},
	{
		ID: 4, Name: "Butter Chicken", PriceCents: 1499,
		Description: "Tandoori chicken simmered in a silky tomato-butter sauce, basmati rice.",
		Category:    "mains", Image: "/images/menu/butter-chicken.jpg",
		Tags:        []string{"popular"},
		SpiceLevels: true,
		Toppings: []Topping{
			{Name: "Garlic Naan", PriceCents: 250},
			{Name: "Extra Rice", PriceCents: 200},
		},
	},
	{
		ID: 5, Name: "Lamb Rogan Josh", PriceCents: 1699,
		Description: "Slow-braised lamb in Kashmiri chili and caramelized onion gravy.",
		Category:    "mains", Image: "/images/menu/rogan-josh.jpg",
		SpiceLevels: true,
		Toppings: []Topping{
			{Name: "Garlic Naan", PriceCents: 250},
			{Name: "Raita", PriceCents: 125},
		},
	},
	{
		ID: 6, Name: "Paneer Tikka Masala", PriceCents: 1349,
		Description: "Grilled paneer in a creamy spiced tomato sauce, basmati rice.",
		Category:    "mains", Image: "/images/menu/paneer-masala.jpg",
		Tags:        []string{"vegetarian"},
		SpiceLevels: true,
	},
	{
		ID: 7, Name: "Baja Fish Tacos", PriceCents: 1199,
		Description: "Beer-battered cod, cabbage slaw, chipotle crema, three per order.",
		Category:    "tacos", Image: "/images/menu/fish-tacos.jpg",
		SpiceLevels: true,
		Toppings: []Topping{
			{Name: "Cheese", PriceCents: 100},
			{Name: "Salsa", PriceCents: 75},
			{Name: "Guacamole", PriceCents: 150},
		},
	},
	{
		ID: 8, Name: "Carnitas Burrito", PriceCents: 1149,
		Description: "Slow-cooked pork, cilantro-lime rice, black beans, flour tortilla.",
		Category:    "tacos", Image: "/images/menu/carnitas-burrito.jpg",
		Tags:        []string{"popular"},
		SpiceLevels: true,
		Toppings: []Topping{
			{Name: "Cheese", PriceCents: 100},
			{Name: "Guacamole", PriceCents: 150},
			{Name: "Sour Cream", PriceCents: 75},
		},
	},
	{
		ID: 9, Name: "Garlic Naan", PriceCents: 349,
		Description: "Tandoor-baked flatbread brushed with garlic butter.",
		Category:    "sides", Image: "/images/menu/garlic-naan.jpg",
		Tags: []string{"vegetarian"},
	},
	{
		ID: 10, Name: "Masala Fries", PriceCents: 499,
		Description: "Crispy fries dusted with chaat masala, cilantro, spiced mayo.",
		Category:    "sides", Image: "/images/menu/masala-fries.jpg",
		Tags:        []string{"vegetarian"},
		SpiceLevels: true,
		Toppings: []Topping{
			{Name: "Cheese", PriceCents: 100},
			{Name: "Spiced Mayo", PriceCents: 50},
		},
	},
	{
		ID: 11, Name: "Gulab Jamun", PriceCents: 549,
		Description: "Warm milk dumplings in rose-cardamom syrup.",
		Category:    "desserts", Image: "/images/menu/gulab-jamun.jpg",
		Tags: []string{"vegetarian"},
	},
	{
		ID: 12, Name: "Churros con Chocolate", PriceCents: 649,
		Description: "Cinnamon-sugar churros with dark chocolate dipping sauce.",
		Category:    "desserts", Image: "/images/menu/churros.jpg",
		Tags: []string{"vegetarian"},
	},
	{
		ID: 13, Name: "Mango Lassi", PriceCents: 449,
		Description: "Alphonso mango blended with yogurt and a pinch of cardamom.",
		Category:    "drinks", Image: "/images/menu/mango-lassi.jpg",
		Tags: []string{"vegetarian", "gluten-free"},
	},
	{
		ID: 14, Name: "Horchata", PriceCents: 399,
		Description: "Rice and cinnamon agua fresca over ice.",
		Category:    "drinks", Image: "/images/menu/horchata.jpg",
		Tags: []string{"vegetarian"},
	},
	{
		ID: 15, Name: "Masala Chai", PriceCents: 349,
		Description: "Black tea steeped with ginger, cardamom and milk.",
		Category:    "drinks", Image: "/images/menu/masala-chai.jpg",
		Tags: []string{"vegetarian"},
	},
}
