package catalog

import "github.com/mcdev12/outbreak/go/internal/models"

// builtinScenarios is the default round content. The table is intentionally
// larger than the maximum supported round count so a game never repeats a
// scenario.
var builtinScenarios = []models.Scenario{
	{
		ID:    "contaminated-wells",
		Title: "Contaminated Wells",
		Text:  "Reports of illness cluster around the eastern wells. Boiling water slows daily life; ignoring the reports risks a city-wide epidemic.",
		Safe:  models.Choice{Label: "Order mandatory boiling", FailureProbability: 0.05, SuccessMultiplier: 1.2},
		Risky: models.Choice{Label: "Keep the wells open", FailureProbability: 0.45, SuccessMultiplier: 1.8},
	},
	{
		ID:    "grain-blight",
		Title: "Grain Blight",
		Text:  "A fungus is spreading through the granaries. You can burn the affected stores now or gamble that the dry season kills it first.",
		Safe:  models.Choice{Label: "Burn affected stores", FailureProbability: 0.05, SuccessMultiplier: 1.25},
		Risky: models.Choice{Label: "Wait for the dry season", FailureProbability: 0.5, SuccessMultiplier: 2.0},
	},
	{
		ID:    "refugee-caravan",
		Title: "Refugee Caravan",
		Text:  "A caravan from a plague-struck province asks for shelter. Turning them away is safe; taking them in brings hands to work and maybe infection.",
		Safe:  models.Choice{Label: "Quarantine outside the walls", FailureProbability: 0.04, SuccessMultiplier: 1.15},
		Risky: models.Choice{Label: "Open the gates", FailureProbability: 0.4, SuccessMultiplier: 1.9},
	},
	{
		ID:    "rat-cull",
		Title: "Rat Cull",
		Text:  "Rat-catchers demand triple pay for a city-wide cull. Pay up, or trust the cats and save the coin for grain.",
		Safe:  models.Choice{Label: "Pay the rat-catchers", FailureProbability: 0.06, SuccessMultiplier: 1.2},
		Risky: models.Choice{Label: "Trust the cats", FailureProbability: 0.42, SuccessMultiplier: 1.75},
	},
	{
		ID:    "festival-season",
		Title: "Festival Season",
		Text:  "The harvest festival draws crowds from every district. Cancel it and sour morale, or let it run and pack the squares shoulder to shoulder.",
		Safe:  models.Choice{Label: "Cancel the festival", FailureProbability: 0.05, SuccessMultiplier: 1.1},
		Risky: models.Choice{Label: "Let it run", FailureProbability: 0.48, SuccessMultiplier: 2.1},
	},
	{
		ID:    "miracle-tonic",
		Title: "Miracle Tonic",
		Text:  "A traveling apothecary sells a tonic said to ward off the fever. Buying for everyone is cheap insurance or an expensive poisoning.",
		Safe:  models.Choice{Label: "Turn the peddler away", FailureProbability: 0.05, SuccessMultiplier: 1.15},
		Risky: models.Choice{Label: "Buy for every household", FailureProbability: 0.5, SuccessMultiplier: 2.0},
	},
	{
		ID:    "sealed-district",
		Title: "Sealed District",
		Text:  "Fever cases triple in the dockside district. Seal it off and starve its trade, or keep the port moving and hope the sickness stays put.",
		Safe:  models.Choice{Label: "Seal the district", FailureProbability: 0.06, SuccessMultiplier: 1.2},
		Risky: models.Choice{Label: "Keep the port open", FailureProbability: 0.45, SuccessMultiplier: 1.85},
	},
	{
		ID:    "winter-stores",
		Title: "Winter Stores",
		Text:  "Merchants offer to buy half your winter stores at a premium. Sell and the treasury swells; a hard winter would empty the larders.",
		Safe:  models.Choice{Label: "Keep the stores", FailureProbability: 0.04, SuccessMultiplier: 1.15},
		Risky: models.Choice{Label: "Sell at a premium", FailureProbability: 0.4, SuccessMultiplier: 1.8},
	},
	{
		ID:    "foreign-physician",
		Title: "Foreign Physician",
		Text:  "A physician with strange methods offers to treat the sick ward. The guild calls him a fraud; the sick ward calls him their last hope.",
		Safe:  models.Choice{Label: "Defer to the guild", FailureProbability: 0.05, SuccessMultiplier: 1.2},
		Risky: models.Choice{Label: "Let him treat the ward", FailureProbability: 0.44, SuccessMultiplier: 1.95},
	},
	{
		ID:    "night-curfew",
		Title: "Night Curfew",
		Text:  "Taverns breed both rumor and contagion. A curfew keeps people apart and tempers hot; free nights keep the peace and the crowds.",
		Safe:  models.Choice{Label: "Impose the curfew", FailureProbability: 0.05, SuccessMultiplier: 1.15},
		Risky: models.Choice{Label: "Leave the taverns open", FailureProbability: 0.41, SuccessMultiplier: 1.7},
	},
	{
		ID:    "mass-graves",
		Title: "Mass Graves",
		Text:  "The churchyards are full. Dig mass graves outside the walls, or keep burying within the city as tradition demands.",
		Safe:  models.Choice{Label: "Dig outside the walls", FailureProbability: 0.04, SuccessMultiplier: 1.2},
		Risky: models.Choice{Label: "Keep to the churchyards", FailureProbability: 0.46, SuccessMultiplier: 1.9},
	},
	{
		ID:    "river-trade",
		Title: "River Trade",
		Text:  "Upriver towns report sickness, but their barges carry the grain you need. Inspect every hull and lose days, or wave them through.",
		Safe:  models.Choice{Label: "Inspect every barge", FailureProbability: 0.06, SuccessMultiplier: 1.2},
		Risky: models.Choice{Label: "Wave them through", FailureProbability: 0.47, SuccessMultiplier: 2.0},
	},
	{
		ID:    "alchemists-wager",
		Title: "Alchemist's Wager",
		Text:  "The alchemists' guild wants funding to distill a cure from quicksilver. Fund the work, or spend the silver on soap and clean straw.",
		Safe:  models.Choice{Label: "Buy soap and straw", FailureProbability: 0.05, SuccessMultiplier: 1.25},
		Risky: models.Choice{Label: "Fund the distillation", FailureProbability: 0.5, SuccessMultiplier: 2.2},
	},
	{
		ID:    "garrison-rotation",
		Title: "Garrison Rotation",
		Text:  "The garrison is due for rotation with troops from an infected region. Delay the rotation and tire your soldiers, or proceed on schedule.",
		Safe:  models.Choice{Label: "Delay the rotation", FailureProbability: 0.05, SuccessMultiplier: 1.15},
		Risky: models.Choice{Label: "Rotate on schedule", FailureProbability: 0.43, SuccessMultiplier: 1.8},
	},
	{
		ID:    "prophets-march",
		Title: "Prophet's March",
		Text:  "A street prophet leads nightly processions begging deliverance. Disperse the marches and risk a riot, or let faith take its course.",
		Safe:  models.Choice{Label: "Disperse the marches", FailureProbability: 0.06, SuccessMultiplier: 1.1},
		Risky: models.Choice{Label: "Let them march", FailureProbability: 0.45, SuccessMultiplier: 1.85},
	},
	{
		ID:    "orphan-ward",
		Title: "Orphan Ward",
		Text:  "The orphan ward is overcrowded and feverish. Split the children across parish houses, or keep them together where the nurses are.",
		Safe:  models.Choice{Label: "Split across parishes", FailureProbability: 0.05, SuccessMultiplier: 1.2},
		Risky: models.Choice{Label: "Keep the ward together", FailureProbability: 0.4, SuccessMultiplier: 1.75},
	},
	{
		ID:    "salt-shortage",
		Title: "Salt Shortage",
		Text:  "Without salt the autumn slaughter cannot be preserved. A smuggler offers cheap salt of doubtful origin; the honest route costs double.",
		Safe:  models.Choice{Label: "Pay the honest price", FailureProbability: 0.04, SuccessMultiplier: 1.2},
		Risky: models.Choice{Label: "Buy from the smuggler", FailureProbability: 0.48, SuccessMultiplier: 2.05},
	},
	{
		ID:    "bell-ringers",
		Title: "Bell Ringers",
		Text:  "Tradition says the bells drive off miasma, and the ringers ring through the night. The din exhausts the city; silencing them breaks an old pact.",
		Safe:  models.Choice{Label: "Silence the bells", FailureProbability: 0.05, SuccessMultiplier: 1.1},
		Risky: models.Choice{Label: "Ring through the night", FailureProbability: 0.42, SuccessMultiplier: 1.7},
	},
}
