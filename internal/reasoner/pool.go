package reasoner

// poolEntry is one book in the curated fallback pool.
type poolEntry struct {
	Title  string
	Author string
	Genre  string
	Rating float64
	Reason string
}

// curatedPool is the offline recommendation pool used when no reasoning
// provider can answer.
var curatedPool = []poolEntry{
	{"The Seven Husbands of Evelyn Hugo", "Taylor Jenkins Reid", "Fiction", 4.5, "A character-driven story about fame, love and the price of both"},
	{"The Midnight Library", "Matt Haig", "Fiction", 4.2, "A thoughtful novel about regret and the lives we might have lived"},
	{"Where the Crawdads Sing", "Delia Owens", "Fiction", 4.6, "A coming-of-age story set in the marshes with a mystery at its heart"},
	{"The Kite Runner", "Khaled Hosseini", "Fiction", 4.3, "A moving story of friendship, betrayal and redemption"},

	{"Project Hail Mary", "Andy Weir", "Science Fiction", 4.7, "A funny, science-heavy survival story with real heart"},
	{"Dune", "Frank Herbert", "Science Fiction", 4.3, "The classic of planetary politics and deep world-building"},
	{"The Martian", "Andy Weir", "Science Fiction", 4.4, "Problem-solving under pressure on a planet that wants you dead"},
	{"Foundation", "Isaac Asimov", "Science Fiction", 4.2, "A foundational saga about the fall and rebuilding of an empire"},

	{"The Name of the Wind", "Patrick Rothfuss", "Fantasy", 4.5, "Lyrical prose and a magic system that rewards attention"},
	{"Mistborn: The Final Empire", "Brandon Sanderson", "Fantasy", 4.4, "A heist story built on one of fantasy's best magic systems"},
	{"The Hobbit", "J.R.R. Tolkien", "Fantasy", 4.3, "The adventure that shaped modern fantasy"},

	{"The Silent Patient", "Alex Michaelides", "Thriller", 4.3, "A psychological thriller that keeps its secret until the last pages"},
	{"Gone Girl", "Gillian Flynn", "Thriller", 4.1, "Two unreliable narrators and a marriage coming apart"},

	{"The Girl with the Dragon Tattoo", "Stieg Larsson", "Mystery", 4.2, "A dense investigation with memorable leads and sharp social commentary"},
	{"The Da Vinci Code", "Dan Brown", "Mystery", 4.0, "A fast-moving puzzle hunt through art and history"},

	{"The Hating Game", "Sally Thorne", "Romance", 4.2, "Enemies-to-lovers office romance with great banter"},
	{"Beach Read", "Emily Henry", "Romance", 4.1, "A warm romance about two writers with more depth than it lets on"},
	{"The Kiss Quotient", "Helen Hoang", "Romance", 4.0, "A sweet romance with thoughtful neurodiverse representation"},

	{"Sapiens", "Yuval Noah Harari", "Non-Fiction", 4.4, "A sweeping look at how humans came to run the planet"},

	{"Educated", "Tara Westover", "Biography", 4.5, "A memoir of leaving a survivalist family through education"},

	{"Thinking, Fast and Slow", "Daniel Kahneman", "Business", 4.2, "How intuition and deliberation shape every decision you make"},
	{"The Lean Startup", "Eric Ries", "Business", 4.1, "A practical method for building products under uncertainty"},

	{"Atomic Habits", "James Clear", "Self-Help", 4.8, "Small, concrete steps for building habits that stick"},
	{"The Power of Now", "Eckhart Tolle", "Self-Help", 4.2, "A guide to presence and quieting the restless mind"},

	{"Clean Code", "Robert C. Martin", "Technology", 4.4, "Principles for writing code other people can maintain"},
	{"The Pragmatic Programmer", "David Thomas", "Technology", 4.3, "Timeless habits of effective software developers"},
}
