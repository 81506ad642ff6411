// Package workout holds the static dumbbell routine catalog and ranks it
// against a user profile.
package workout

// Exercise is one movement inside a routine.
type Exercise struct {
	Name        string `json:"name"`
	Reps        string `json:"reps"`
	Instruction string `json:"instruction"`
}

// Routine is a predefined dumbbell workout.
type Routine struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Focus           string     `json:"focus"`
	Level           string     `json:"level"`
	Sets            int        `json:"sets"`
	RestBetweenSets string     `json:"restBetweenSets"`
	Tags            []string   `json:"tags"`
	Exercises       []Exercise `json:"exercises"`
}

// Catalog is the built-in routine set, kept deliberately small so every
// entry can be scored on each request.
var Catalog = []Routine{
	{
		ID:              "gladiator",
		Title:           "Gladiator",
		Focus:           "Full Body",
		Level:           "II",
		Sets:            5,
		RestBetweenSets: "2 minutes",
		Tags:            []string{"strength", "muscle_gain", "male"},
		Exercises: []Exercise{
			{Name: "Bicep Curls", Reps: "10 reps", Instruction: "Stand with dumbbells, curl upwards towards shoulders. Control the descent."},
			{Name: "Shoulder Press", Reps: "10 reps", Instruction: "Dumbbells at shoulder height, push up until arms extended."},
			{Name: "Lunges", Reps: "20 reps (10/leg)", Instruction: "Step forward, lower hips until both knees are 90 degrees."},
			{Name: "Bent Over Rows", Reps: "10 reps", Instruction: "Torso inclined forward, back straight, pull dumbbells to waist."},
		},
	},
	{
		ID:              "arm_shred",
		Title:           "Arm Shred",
		Focus:           "Upper Body",
		Level:           "I",
		Sets:            3,
		RestBetweenSets: "60 seconds",
		Tags:            []string{"tone", "upper_body", "female", "male"},
		Exercises: []Exercise{
			{Name: "Bicep Curls", Reps: "12 reps", Instruction: "Keep elbows glued to torso. Don't swing body."},
			{Name: "Tricep Extensions", Reps: "10 reps", Instruction: "Dumbbell overhead, lower behind neck bending elbows."},
			{Name: "Shoulder Press", Reps: "10 reps", Instruction: "Push vertically without arching lower back."},
			{Name: "Upright Rows", Reps: "12 reps", Instruction: "Pull dumbbells up body line to chest height, elbows high."},
		},
	},
	{
		ID:              "leg_day",
		Title:           "Brute Leg Day",
		Focus:           "Lower Body",
		Level:           "II",
		Sets:            4,
		RestBetweenSets: "20 seconds",
		Tags:            []string{"strength", "lower_body", "female"},
		Exercises: []Exercise{
			{Name: "Squats", Reps: "10 reps", Instruction: "Feet shoulder width, lower as if sitting in invisible chair."},
			{Name: "Lunges", Reps: "10 reps", Instruction: "Alternating lunges. Keep torso upright."},
			{Name: "Side Lunges", Reps: "10 reps", Instruction: "Step sideways, lower hip on that leg, keep other straight."},
			{Name: "Calf Raises", Reps: "20 reps", Instruction: "Stand on toes lifting heels as high as possible."},
			{Name: "Deadlifts", Reps: "10 reps", Instruction: "Semi-stiff legs, lower weights skimming legs keeping back straight."},
		},
	},
	{
		ID:              "meta_burn",
		Title:           "Meta Burn",
		Focus:           "Cardio",
		Level:           "III",
		Sets:            5,
		RestBetweenSets: "20 seconds",
		Tags:            []string{"weight_loss", "hiit", "cardio"},
		Exercises: []Exercise{
			{Name: "Bicep Curls", Reps: "6 reps", Instruction: "Fast and controlled movement."},
			{Name: "Lateral Raises", Reps: "6 reps", Instruction: "Raise arms to sides up to shoulder height."},
			{Name: "Shoulder Press", Reps: "6 reps", Instruction: "Fast military press."},
			{Name: "Upright Rows", Reps: "6 reps", Instruction: "Row to chin."},
			{Name: "Tricep Extensions", Reps: "6 reps", Instruction: "Overhead extension."},
		},
	},
	{
		ID:              "power_10",
		Title:           "Power 10",
		Focus:           "Full Body",
		Level:           "I",
		Sets:            3,
		RestBetweenSets: "60 seconds",
		Tags:            []string{"beginner", "tone", "quick"},
		Exercises: []Exercise{
			{Name: "Tricep Dips", Reps: "20 reps", Instruction: "Use chair/bench. Lower hips bending elbows."},
			{Name: "Bicep Curls", Reps: "20 reps", Instruction: "Standard curl with light/medium weight."},
			{Name: "Punches", Reps: "20 reps", Instruction: "Punch air controlling movement with light weights."},
			{Name: "Arm Raises", Reps: "20 reps", Instruction: "Lateral raises for shoulders."},
		},
	},
	{
		ID:              "abs_brute",
		Title:           "Dumbbell Abs",
		Focus:           "Abs",
		Level:           "II",
		Sets:            4,
		RestBetweenSets: "20 seconds",
		Tags:            []string{"core", "abs", "tone"},
		Exercises: []Exercise{
			{Name: "Sit-up Folds", Reps: "10 reps", Instruction: "Classic sit-up bringing weight to chest when up."},
			{Name: "Sitting Twists", Reps: "10 reps", Instruction: "Russian twists. Seated, rotate torso side to side with weight."},
			{Name: "Side Tilts", Reps: "10 reps", Instruction: "Standing, tilt sideways sliding dumbbell down thigh."},
			{Name: "Cross Chops", Reps: "10 reps", Instruction: "Bring dumbbell from shoulder to opposite hip with force."},
		},
	},
}
