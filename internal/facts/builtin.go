package facts

var builtinEntries = map[Category][]string{
	CategoryScience: {
		"Light from the Sun reaches the Earth in about 8 minutes.",
		"Water can exist in three states: solid, liquid and gas.",
		"The human brain is about 75% water.",
		"Atoms are 99.9999999999999% empty space.",
		"The Earth spins around its axis at about 1670 kilometres per hour.",
		"Human DNA is 99.9% identical to chimpanzee DNA.",
		"The temperature inside a star can reach 15 million degrees Celsius.",
		"Ultrasound is used in medicine for both diagnosis and treatment.",
		"Microbes living in our bodies make up to 90% of the cells found in us.",
		"Salt crystals help preserve food because they have antimicrobial properties.",
	},
	CategoryHistory: {
		"The ancient Egyptians built the pyramids with the labour of thousands of workers.",
		"The first known civilisation was Sumer in Mesopotamia.",
		"The Norman conquest of England took place in 1066.",
		"Columbus reached the Americas in 1492.",
		"The Roman Empire reached its greatest extent around 117 AD.",
		"Sun Tzu, an ancient Chinese general, wrote 'The Art of War' more than 2500 years ago.",
		"The first Olympic Games were held in Greece in 776 BC.",
		"Many medieval Europeans pictured the Earth surrounded by an endless ocean.",
		"The pharaohs ruled ancient Egypt for more than 3000 years.",
		"The plague epidemic in fourteenth-century Europe killed about 25 million people.",
	},
	CategoryNature: {
		"There are about 8.7 million species of living organisms in the world.",
		"The highest mountain on Earth is Everest, 8848 metres tall.",
		"Jellyfish have no brain, heart or bones.",
		"Frogs can slow their metabolism enough to 'sleep' for many months.",
		"The elephant is the only mammal that cannot jump.",
		"Forests provide about 28% of the oxygen on Earth.",
		"Large ocean waves can reach heights of more than 30 metres.",
		"Different butterfly species have different colours and patterns on their wings.",
		"Wildlife in Antarctica evolved in isolation, which makes its ecosystem unique.",
		"Coral reefs are among the most diverse ecosystems on the planet.",
	},
	CategoryRandom: {
		"Angel Falls in Venezuela is the highest waterfall in the world at 979 metres.",
		"There are more sheep than people in Australia.",
		"Chickens can remember the faces of up to 100 different people.",
		"Beavers' teeth never stop growing, so they have to wear them down.",
		"Dolphins can recognise themselves in a mirror.",
		"Pandas can eat up to 38 kilograms of bamboo a day.",
		"An albatross can fly more than 10000 kilometres without stopping.",
		"There are more than 2000 species of edible plants in the world.",
		"The darkest shadows are cast on a full moon night, when the moon lights up the whole land.",
		"Sea otters hold hands while sleeping so they don't drift apart.",
	},
}

// Builtin returns the fact table compiled into the binary.
func Builtin() *Table {
	return MustTable(builtinEntries)
}
