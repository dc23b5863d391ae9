// Package stories composes the daily "Jingles the Elf" update emails sent
// while a letter travels toward Santa.
package stories

import "fmt"

type Email struct {
	To              string `json:"to"`
	Subject         string `json:"subject"`
	Body            string `json:"body"`
	ChildName       string `json:"childName"`
	ParentFirstName string `json:"parentFirstName"`
	DayNumber       int    `json:"dayNumber"`
}

type dayStory struct {
	subject  string
	location string
	story    string
	signoff  string
}

// Keyed by day number, which equals the milestone index the child just
// reached. Day 4 is delivery day.
var dayStories = map[int]dayStory{
	1: {
		subject:  "%s's Letter is Traveling Through the Candy Cane Forest!",
		location: "Candy Cane Forest",
		story: "We made it to the Candy Cane Forest this morning! The trees here are " +
			"giant candy canes that twist up toward the sky, with peppermint leaves that " +
			"tinkle like bells. Your letter is tucked safely in my enchanted satchel, and " +
			"the Sugar Sprites cheered when they sensed all the Christmas wishes inside. " +
			"Tomorrow we head for the Reindeer Runway!",
		signoff: "Peppermint kisses and candy cane wishes",
	},
	2: {
		subject:  "%s's Letter Just Met the Reindeer!",
		location: "Reindeer Runway",
		story: "Guess where we are? THE REINDEER RUNWAY! Dasher was doing loop-de-loops " +
			"and Rudolph himself came over to inspect your letter. His nose glowed extra " +
			"bright - he said he could tell it was written with a really good heart, and " +
			"gave it an official Rudolph Approved stamp. Tomorrow we reach the Aurora Gate!",
		signoff: "With jingle bells and reindeer dust",
	},
	3: {
		subject:  "%s's Letter is Passing Through the Northern Lights!",
		location: "Aurora Gate",
		story: "Today was breathtaking! We reached the Aurora Gate, where the Northern " +
			"Lights dance in ribbons of green, purple, and blue. Your letter had to pass " +
			"through the magical lights - and it started GLOWING! That means it is filled " +
			"with love and Christmas spirit. Tomorrow we finally reach Santa's desk!",
		signoff: "With stardust and aurora dreams",
	},
	4: {
		subject:  "%s's Letter Has Been DELIVERED TO SANTA!",
		location: "Santa's Desk",
		story: "WE DID IT! Your letter is sitting right on Santa's desk at the North " +
			"Pole. I watched Santa pick it up with his big warm hands, put on his reading " +
			"glasses, and SMILE that big jolly smile. He read every single word and said, " +
			"\"This one is going on the Nice List for sure!\"",
		signoff: "With the biggest elf hug ever",
	},
}

// ComposeDaily builds the story email for the given day. Returns false if
// the day has no story (outside the emailable range). santaLetterURL and
// certificateURL are included on delivery day for entitled tiers only;
// pass empty strings otherwise.
func ComposeDaily(to, parentFirstName, childName string, day int, santaLetterURL, certificateURL string) (Email, bool) {
	d, ok := dayStories[day]
	if !ok {
		return Email{}, false
	}

	body := fmt.Sprintf(`Dear %s,

Jingles here with your daily letter update for %s!

Today's stop: %s

%s

Day %d of 4 on the journey to Santa.
`, parentFirstName, childName, d.location, d.story, day)

	if santaLetterURL != "" || certificateURL != "" {
		body += fmt.Sprintf(`
SPECIAL DELIVERY! Santa has written a personal letter back to %s,
and an Official Nice List Certificate is ready:

View Santa's Letter: %s
View the Nice List Certificate: %s
`, childName, santaLetterURL, certificateURL)
	}

	body += fmt.Sprintf(`
%s,
Jingles the Elf
`, d.signoff)

	return Email{
		To:              to,
		Subject:         fmt.Sprintf(d.subject, childName),
		Body:            body,
		ChildName:       childName,
		ParentFirstName: parentFirstName,
		DayNumber:       day,
	}, true
}
