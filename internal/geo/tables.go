package geo

// countyZips lists the zip codes of each county in the service region.
var countyZips = map[County][]int{
	Bexar: {
		78245, 78254, 78249, 78253, 78251, 78228, 78250, 78240, 78247, 78207,
		78223, 78258, 78201, 78227, 78230, 78233, 78213, 78221, 78216, 78109,
		78209, 78244, 78237, 78218, 78232, 78260, 78210, 78023, 78229, 78217,
		78242, 78239, 78211, 78238, 78212, 78222, 78259, 78261, 78148, 78214,
		78224, 78015, 78219, 78220, 78255, 78248, 78264, 78252, 78225, 78204,
		78256, 78073, 78202, 78112, 78231, 78236, 78002, 78226, 78203, 78257,
		78263, 78208, 78215, 78152, 78234, 78205, 78235, 78243, 78206, 78262,
		78275, 78286, 78287, 78054, 78150, 78241, 78246, 78265, 78268, 78270,
		78269, 78278, 78280, 78279, 78284, 78283, 78285, 78288, 78291, 78289,
		78293, 78292, 78295, 78294, 78297, 78296, 78299, 78298,
	},
	Kendall: {
		78006, 78013, 78606, 78004, 78027, 78074,
	},
	Bandera: {
		78063, 78003, 78055, 78884, 78885, 78883,
	},
	Comal: {
		78130, 78132, 78133, 78070, 78163, 78266, 78623, 78131, 78135,
	},
	Guadalupe: {
		78666, 78155, 78108, 78154, 78648, 78124, 78655, 78638, 78123, 78670,
		78115, 78156,
	},
	Wilson: {
		78114, 78121, 78101, 78160, 78140, 78113, 78161, 78147, 78143,
	},
	Atascosa: {
		78064, 78065, 78026, 78052, 78069, 78011, 78008, 78050, 78062, 78012,
	},
	Medina: {
		78861, 78016, 78009, 78059, 78039, 78056, 78057, 78850, 78066, 78886,
	},
}

// zipIncomes holds the published median family income per zip code.
// Zip codes without a published value are left out.
var zipIncomes = map[int]int{
	78002: 64082, 78003: 54500, 78004: 160147, 78006: 110955, 78009: 102724,
	78011: 29089, 78012: 47708, 78013: 79770, 78015: 155488, 78016: 57609,
	78023: 129701, 78026: 77257, 78027: 108434, 78039: 74013, 78050: 91212,
	78052: 69018, 78055: 71635, 78056: 122026, 78057: 63967, 78059: 72254,
	78063: 79066, 78064: 69407, 78065: 63653, 78066: 92813, 78069: 71071,
	78070: 115076, 78073: 65342, 78101: 90413, 78108: 117304, 78109: 87635,
	78112: 54445, 78113: 90191, 78114: 84260, 78121: 126726, 78123: 95700,
	78124: 82534, 78130: 84426, 78132: 126934, 78133: 80777, 78140: 49032,
	78147: 72961, 78148: 75395, 78152: 102212, 78154: 97465, 78155: 71367,
	78160: 62188, 78161: 75966, 78163: 133681, 78201: 46129, 78202: 43708,
	78203: 34815, 78204: 54667, 78205: 34631, 78207: 30655, 78208: 23194,
	78209: 84180, 78210: 51990, 78211: 54279, 78212: 60222, 78213: 53342,
	78214: 41334, 78215: 82128, 78216: 55488, 78217: 56852, 78218: 56833,
	78219: 52147, 78220: 41244, 78221: 63114, 78222: 64251, 78223: 50352,
	78224: 57965, 78225: 46829, 78226: 32340, 78227: 48049, 78228: 50865,
	78229: 46718, 78230: 71564, 78231: 103538, 78232: 84633, 78233: 73729,
	78234: 100096, 78235: 64919, 78236: 96771, 78237: 40233, 78238: 56227,
	78239: 71455, 78240: 62203, 78242: 48979, 78244: 67789, 78245: 87890,
	78247: 89184, 78248: 130605, 78249: 80851, 78250: 80289, 78251: 78025,
	78252: 79635, 78253: 104260, 78254: 115823, 78255: 151673, 78256: 72797,
	78257: 74540, 78258: 116133, 78259: 109429, 78260: 150705, 78261: 140120,
	78263: 81793, 78264: 60245, 78266: 132470, 78606: 89980, 78623: 122143,
	78638: 82760, 78648: 56533, 78655: 48409, 78666: 55478, 78670: 76591,
	78850: 77344, 78861: 64491, 78883: 36189, 78884: 82292, 78885: 70833,
	78886: 119276,
}

// countyIncomes holds the published county-level median family income.
var countyIncomes = map[County]int{
	Kendall:   110498,
	Bandera:   69073,
	Comal:     99193,
	Guadalupe: 95953,
	Wilson:    92461,
	Atascosa:  69413,
	Medina:    73462,
	Bexar:     69807,
}
