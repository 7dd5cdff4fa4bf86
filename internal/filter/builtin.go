package filter

// builtinDenylist is the default set of words never offered as
// usernames. Config can extend but not shrink it.
var builtinDenylist = []string{
	"anal",
	"anus",
	"arse",
	"arsehole",
	"ass",
	"asses",
	"asshole",
	"bastard",
	"bitch",
	"bollocks",
	"boner",
	"boob",
	"boobs",
	"bugger",
	"bullshit",
	"butt",
	"clit",
	"cock",
	"coon",
	"crap",
	"cum",
	"cunt",
	"dick",
	"dildo",
	"douche",
	"dyke",
	"fag",
	"faggot",
	"fuck",
	"fucker",
	"fucking",
	"goddamn",
	"hell",
	"homo",
	"jerk",
	"jizz",
	"kike",
	"labia",
	"muff",
	"nigga",
	"nigger",
	"nipple",
	"pecker",
	"penis",
	"piss",
	"poop",
	"porn",
	"prick",
	"pube",
	"pussy",
	"queer",
	"rectum",
	"retard",
	"scrotum",
	"semen",
	"sex",
	"shit",
	"slut",
	"smegma",
	"spunk",
	"tit",
	"tits",
	"turd",
	"twat",
	"vagina",
	"wank",
	"wanker",
	"whore",
}
